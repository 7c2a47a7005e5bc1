// Package database owns the GORM connection and schema migration.
//
// Data access for each aggregate lives in a subpackage (users, books,
// reviews, favorites, bookshelves, readinglist, tokens), each exposing a
// Repository built around the shared *gorm.DB.
package database
