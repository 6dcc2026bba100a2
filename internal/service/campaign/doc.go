// Package campaign implements campaign lifecycle management.
//
// The service layer contains all business logic for creating, editing,
// scheduling, and deleting email campaigns. The send pipeline itself lives
// in internal/mailing; this package owns everything up to the moment a
// campaign is handed to the dispatcher.
//
// Repository implementations live in repository/postgres.
package campaign
