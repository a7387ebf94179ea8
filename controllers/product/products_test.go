package productControllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	productControllers "github.com/amanymoammer22/backend/controllers/product"
	"github.com/amanymoammer22/backend/models"
)

type recordingSender struct {
	sent []string
}

func (r *recordingSender) Send(to, subject, body string) error {
	r.sent = append(r.sent, to)
	return nil
}

func setupProductDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:products?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrator().DropTable(&models.Product{}, &models.Category{}, &models.Subscriber{}))
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}, &models.Subscriber{}))
	return db
}

func setupProductRouter(db *gorm.DB, mailer *recordingSender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/products", productControllers.GetProducts(db))
	r.GET("/products/:id", productControllers.GetProduct(db))
	r.POST("/products", productControllers.CreateProduct(db, mailer))
	r.PUT("/products/:id", productControllers.UpdateProduct(db))
	r.DELETE("/products/:id", productControllers.DeleteProduct(db))
	return r
}

func request(r *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	var raw []byte
	if payload != nil {
		raw, _ = json.Marshal(payload)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func seedCategories(t *testing.T, db *gorm.DB) (models.Category, models.Category) {
	t.Helper()
	shoes := models.Category{Name: "Shoes", Slug: "shoes"}
	bags := models.Category{Name: "Bags", Slug: "bags"}
	require.NoError(t, db.Create(&shoes).Error)
	require.NoError(t, db.Create(&bags).Error)
	return shoes, bags
}

func TestCreateProduct(t *testing.T) {
	db := setupProductDB(t)
	mailer := &recordingSender{}
	r := setupProductRouter(db, mailer)
	shoes, _ := seedCategories(t, db)

	require.NoError(t, db.Create(&models.Subscriber{Email: "fan@example.com", Name: "Fan"}).Error)

	w := request(r, http.MethodPost, "/products", gin.H{
		"title":       "Canvas High Top",
		"description": "A durable canvas high top for everyday wear.",
		"quantity":    12,
		"price":       59.99,
		"categoryId":  shoes.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var product models.Product
	require.NoError(t, db.First(&product, "title = ?", "Canvas High Top").Error)
	assert.Equal(t, "canvas-high-top", product.Slug)
	assert.Equal(t, shoes.ID, product.CategoryID)

	// Every subscriber got the announcement.
	assert.Equal(t, []string{"fan@example.com"}, mailer.sent)
}

func TestCreateProductValidation(t *testing.T) {
	db := setupProductDB(t)
	r := setupProductRouter(db, &recordingSender{})
	shoes, _ := seedCategories(t, db)

	// Price above the ceiling.
	w := request(r, http.MethodPost, "/products", gin.H{
		"title":       "Gold Plated Sneaker",
		"description": "Far too expensive to ever be listed here.",
		"quantity":    1,
		"price":       2500.0,
		"categoryId":  shoes.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Nonexistent category.
	w = request(r, http.MethodPost, "/products", gin.H{
		"title":       "Orphan Product",
		"description": "This product points at a missing category.",
		"quantity":    1,
		"price":       10.0,
		"categoryId":  9999,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Description below the minimum length.
	w = request(r, http.MethodPost, "/products", gin.H{
		"title":       "Terse Product",
		"description": "too short",
		"quantity":    1,
		"price":       10.0,
		"categoryId":  shoes.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProducts(t *testing.T) {
	db := setupProductDB(t)
	r := setupProductRouter(db, &recordingSender{})
	shoes, bags := seedCategories(t, db)

	seed := []models.Product{
		{Title: "Running Shoe", Slug: "running-shoe", Description: "light and springy", Quantity: 5, Price: 80, CategoryID: shoes.ID},
		{Title: "Hiking Boot", Slug: "hiking-boot", Description: "rugged shoe for trails", Quantity: 3, Price: 120, CategoryID: shoes.ID},
		{Title: "Tote Bag", Slug: "tote-bag", Description: "roomy canvas tote", Quantity: 9, Price: 30, CategoryID: bags.ID},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	// Category filter through the public rename, sorted by price.
	w := request(r, http.MethodGet, fmt.Sprintf("/products?category=%d&sort=price", shoes.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Results int `json:"results"`
		Data    []struct {
			Title string `json:"title"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Results)
	assert.Equal(t, "Running Shoe", resp.Data[0].Title)
	assert.Equal(t, "Hiking Boot", resp.Data[1].Title)

	// Keyword search hits descriptions as well as titles.
	w = request(r, http.MethodGet, "/products?keyword=shoe", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Results)

	// A non-numeric category reference is rejected, not silently matched.
	w = request(r, http.MethodGet, "/products?category=shoes", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProductByID(t *testing.T) {
	db := setupProductDB(t)
	r := setupProductRouter(db, &recordingSender{})
	shoes, _ := seedCategories(t, db)

	product := models.Product{Title: "Loafer", Slug: "loafer", Description: "slip on and go anywhere", Quantity: 2, Price: 70, CategoryID: shoes.ID}
	require.NoError(t, db.Create(&product).Error)

	w := request(r, http.MethodGet, fmt.Sprintf("/products/%d", product.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Loafer")
	// The category association is preloaded.
	assert.Contains(t, w.Body.String(), "Shoes")

	w = request(r, http.MethodGet, "/products/99999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProduct(t *testing.T) {
	db := setupProductDB(t)
	r := setupProductRouter(db, &recordingSender{})
	shoes, bags := seedCategories(t, db)

	product := models.Product{Title: "Old Title Here", Slug: "old-title-here", Description: "twenty characters min", Quantity: 4, Price: 20, CategoryID: shoes.ID}
	require.NoError(t, db.Create(&product).Error)

	w := request(r, http.MethodPut, fmt.Sprintf("/products/%d", product.ID), gin.H{
		"title":      "Brand New Title",
		"price":      25.0,
		"categoryId": bags.ID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Product
	require.NoError(t, db.First(&updated, product.ID).Error)
	assert.Equal(t, "Brand New Title", updated.Title)
	assert.Equal(t, "brand-new-title", updated.Slug)
	assert.Equal(t, 25.0, updated.Price)
	assert.Equal(t, bags.ID, updated.CategoryID)
	// Untouched fields survive a partial update.
	assert.Equal(t, 4, updated.Quantity)

	// Invalid price on update is refused.
	w = request(r, http.MethodPut, fmt.Sprintf("/products/%d", product.ID), gin.H{"price": -5.0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(r, http.MethodPut, "/products/99999", gin.H{"price": 10.0})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProduct(t *testing.T) {
	db := setupProductDB(t)
	r := setupProductRouter(db, &recordingSender{})
	shoes, _ := seedCategories(t, db)

	product := models.Product{Title: "Doomed Product", Slug: "doomed-product", Description: "will not be around for long", Quantity: 1, Price: 5, CategoryID: shoes.ID}
	require.NoError(t, db.Create(&product).Error)

	w := request(r, http.MethodDelete, fmt.Sprintf("/products/%d", product.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = request(r, http.MethodDelete, fmt.Sprintf("/products/%d", product.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
