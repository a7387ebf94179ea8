// Package factory provides the generic CRUD handlers shared by every
// resource whose endpoint is plain collection work: list through the
// apifeatures pipeline, fetch one, delete one.
package factory

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/amanymoammer22/backend/apierrors"
	"github.com/amanymoammer22/backend/apifeatures"
)

// GetAll lists a collection: filter, search, sort, paginate and project
// per the request's query string.
func GetAll[T any](db *gorm.DB, schema apifeatures.Schema, preloads ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := apifeatures.Parse(c.Request.URL.Query())

		query, pagination, err := opts.Run(db.Model(new(T)), schema)
		if err != nil {
			var badRef *apifeatures.BadReferenceError
			if errors.As(err, &badRef) {
				apierrors.Respond(c, apierrors.New(apierrors.Validation, badRef.Error()))
				return
			}
			apierrors.Respond(c, err)
			return
		}
		for _, preload := range preloads {
			query = query.Preload(preload)
		}

		var documents []T
		if err := query.Find(&documents).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"results":          len(documents),
			"paginationResult": pagination,
			"data":             documents,
		})
	}
}

// GetOne fetches a document by its :id route parameter.
func GetOne[T any](db *gorm.DB, preloads ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		query := db
		for _, preload := range preloads {
			query = query.Preload(preload)
		}

		var document T
		if err := query.First(&document, "id = ?", id).Error; err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.NotFound, "No document for this id "+id))
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": document})
	}
}

// DeleteOne removes a document by its :id route parameter.
func DeleteOne[T any](db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		result := db.Delete(new(T), "id = ?", id)
		if result.Error != nil {
			apierrors.Respond(c, result.Error)
			return
		}
		if result.RowsAffected == 0 {
			apierrors.Respond(c, apierrors.New(apierrors.NotFound, "No document for this id "+id))
			return
		}
		c.Status(http.StatusNoContent)
	}
}
