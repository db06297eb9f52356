// Package models holds the GORM persistence models backing the domain
// aggregates. Domain entities stay free of ORM tags; these models carry the
// column mappings and convert to and from their domain counterparts.
//
// base.go holds the shared aggregate columns, identity.go the tenant, user
// and expense category models, expense.go the recurring template, expense
// and number counter models.
package models
