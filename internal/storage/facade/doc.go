// Package facade is the typed SQL layer used by the storage package.
//
// A Facade describes one table (optionally joined with others) and renders
// SELECT/COUNT/INSERT/UPDATE/DELETE statements together with their argument
// lists. Values always travel as bound arguments; only identifiers that come
// from code constants are written into the SQL text.
//
// Core Components:
//   - Dialect: placeholder style, identifier quoting and insert-id strategy
//   - Attributes: ordered column/value pairs for INSERT and UPDATE
//   - Filter: AND-joined conditions rendered into a WHERE clause
//   - Facade: statement rendering for a table and its joins
//
// Example:
//
//	users := facade.New(facade.MySQL, "users", "u").
//		Key("id").
//		Select("u.id", "u.email", "u.role")
//	query, args := users.SelectQuery(facade.NewFilter().Eq("u.role", "admin"), nil, facade.Page{Limit: 10})
//	rows, err := db.QueryContext(ctx, query, args...)
package facade
