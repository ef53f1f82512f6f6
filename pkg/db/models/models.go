package models

// All returns every persisted model in dependency order. Used by AutoMigrate in
// tests and the sqlite dev mode; postgres schemas come from goose migrations.
func All() []any {
	return []any{
		&User{},
		&Vendor{},
		&Service{},
		&Address{},
		&Booking{},
		&Review{},
		&Favorite{},
	}
}
