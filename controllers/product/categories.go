package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/amanymoammer22/backend/apierrors"
	"github.com/amanymoammer22/backend/apifeatures"
	"github.com/amanymoammer22/backend/controllers/factory"
	"github.com/amanymoammer22/backend/models"
)

var categorySchema = apifeatures.Schema{
	SearchFields: []string{"name"},
}

type CategoryInput struct {
	Name string `json:"name" binding:"required,min=2,max=50"`
}

// GET /categories
func GetCategories(db *gorm.DB) gin.HandlerFunc {
	return factory.GetAll[models.Category](db, categorySchema)
}

// GET /categories/:id
func GetCategory(db *gorm.DB) gin.HandlerFunc {
	return factory.GetOne[models.Category](db)
}

// DELETE /categories/:id
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return factory.DeleteOne[models.Category](db)
}

// POST /categories
func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, err.Error()))
			return
		}

		category := models.Category{Name: input.Name, Slug: slug.Make(input.Name)}
		if err := db.Create(&category).Error; err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Conflict, "Category already exists"))
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": category})
	}
}

// PUT /categories/:id
func UpdateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var category models.Category
		if err := db.First(&category, "id = ?", id).Error; err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.NotFound, "No document for this id "+id))
			return
		}

		var input CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierrors.Respond(c, apierrors.New(apierrors.Validation, err.Error()))
			return
		}

		updates := map[string]interface{}{
			"name": input.Name,
			"slug": slug.Make(input.Name),
		}
		if err := db.Model(&category).Updates(updates).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": category})
	}
}
