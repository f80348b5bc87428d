package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// querySpec whitelists the query parameters a list endpoint understands:
// exact-match filters (param name -> column), substring search columns for
// the "search" parameter, and orderable columns for the "ordering" parameter
// ("-" prefix for descending).
type querySpec struct {
	filters      map[string]string
	search       []string
	ordering     map[string]string
	defaultOrder string
}

func applyQuery(ctx *gin.Context, spec querySpec, tx *gorm.DB) *gorm.DB {
	for param, column := range spec.filters {
		if value, ok := ctx.GetQuery(param); ok && value != "" {
			tx = tx.Where(column+" = ?", value)
		}
	}

	if term := ctx.Query("search"); term != "" && len(spec.search) > 0 {
		pattern := "%" + strings.ToLower(term) + "%"
		clauses := make([]string, 0, len(spec.search))
		args := make([]interface{}, 0, len(spec.search))

		for _, column := range spec.search {
			clauses = append(clauses, "LOWER("+column+") LIKE ?")
			args = append(args, pattern)
		}

		tx = tx.Where(strings.Join(clauses, " OR "), args...)
	}

	order := spec.defaultOrder

	if param := ctx.Query("ordering"); param != "" {
		descending := strings.HasPrefix(param, "-")

		if column, ok := spec.ordering[strings.TrimPrefix(param, "-")]; ok {
			order = column
			if descending {
				order += " DESC"
			}
		}
	}

	if order != "" {
		tx = tx.Order(order)
	}

	return tx
}
