// controllers/category_controller.go
package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nomanqadri34/vcx-mart-sub003/config"
	"github.com/nomanqadri34/vcx-mart-sub003/models"
	"github.com/nomanqadri34/vcx-mart-sub003/utils"
)

const (
	categoryTreeCacheKey = "categories:tree"
	categoryTreeCacheTTL = 10 * time.Minute
)

// CategoryController handles catalog category management
type CategoryController struct {
	DB *mongo.Client
}

// NewCategoryController creates a new category controller
func NewCategoryController(db *mongo.Client) *CategoryController {
	return &CategoryController{DB: db}
}

// CreateCategory adds a category. The slug is derived from the name and must
// be unique.
func (cc *CategoryController) CreateCategory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Category name is required",
		})
	}

	var parentID *primitive.ObjectID
	if req.ParentID != "" {
		pid, err := primitive.ObjectIDFromHex(req.ParentID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid parent category ID",
			})
		}
		count, err := config.GetCollection(cc.DB, "categories").CountDocuments(ctx, bson.M{"_id": pid})
		if err != nil || count == 0 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Parent category does not exist",
			})
		}
		parentID = &pid
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now()
	category := models.Category{
		ID:        primitive.NewObjectID(),
		Name:      utils.SanitizeInput(req.Name),
		Slug:      utils.Slugify(req.Name),
		ParentID:  parentID,
		SortOrder: req.SortOrder,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := config.GetCollection(cc.DB, "categories").InsertOne(ctx, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "A category with this name already exists",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create category",
		})
	}

	cc.invalidateTreeCache(ctx)
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Category created successfully",
		Data:    category,
	})
}

// UpdateCategory modifies a category's name, parent, order or visibility
func (cc *CategoryController) UpdateCategory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	categoryID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid category ID",
		})
	}

	var req models.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Category name is required",
		})
	}

	set := bson.M{
		"name":      utils.SanitizeInput(req.Name),
		"slug":      utils.Slugify(req.Name),
		"sortOrder": req.SortOrder,
		"updatedAt": time.Now(),
	}
	unset := bson.M{}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}
	if req.ParentID != "" {
		pid, err := primitive.ObjectIDFromHex(req.ParentID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid parent category ID",
			})
		}
		if pid == categoryID {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "A category cannot be its own parent",
			})
		}
		set["parentId"] = pid
	} else {
		unset["parentId"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	result, err := config.GetCollection(cc.DB, "categories").UpdateOne(ctx, bson.M{"_id": categoryID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "A category with this name already exists",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update category",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Category not found",
		})
	}

	cc.invalidateTreeCache(ctx)
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Category updated successfully",
	})
}

// UploadCategoryImage attaches an image to a category. A thumbnail is
// generated alongside the original.
func (cc *CategoryController) UploadCategoryImage(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	categoryID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid category ID",
		})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Image file is required",
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Failed to open uploaded file",
		})
	}
	defer file.Close()

	fileData, err := io.ReadAll(file)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Failed to read uploaded file",
		})
	}
	if err := utils.ValidateImageFile(fileHeader.Filename); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	imageURL, err := utils.UploadImage(fileData, fileHeader.Filename, "categories")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save image",
		})
	}
	if _, err := utils.GenerateThumbnail(fileData, fileHeader.Filename); err != nil {
		log.Printf("Failed to generate category thumbnail: %v", err)
	}

	result, err := config.GetCollection(cc.DB, "categories").UpdateOne(ctx,
		bson.M{"_id": categoryID},
		bson.M{"$set": bson.M{"image": imageURL, "updatedAt": time.Now()}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update category",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Category not found",
		})
	}

	cc.invalidateTreeCache(ctx)
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Category image uploaded successfully",
		Data:    map[string]interface{}{"image": imageURL},
	})
}

// DeleteCategory soft deletes a category by marking it inactive. Products
// keep their categoryId; they simply stop appearing under the tree.
func (cc *CategoryController) DeleteCategory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	categoryID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid category ID",
		})
	}

	result, err := config.GetCollection(cc.DB, "categories").UpdateOne(ctx,
		bson.M{"_id": categoryID},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete category",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Category not found",
		})
	}

	cc.invalidateTreeCache(ctx)
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Category deleted successfully",
	})
}

// GetCategories lists all categories flat, including inactive ones, for the
// admin screen.
func (cc *CategoryController) GetCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := config.GetCollection(cc.DB, "categories").Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch categories",
		})
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode categories",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Categories retrieved successfully",
		Data:    categories,
	})
}

// GetCategoryTree returns the active category tree for storefront menus.
// Served from Redis when the cache is warm.
func (cc *CategoryController) GetCategoryTree(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if rdb := config.GetRedisClient(); rdb != nil {
		if cached, err := rdb.Get(ctx, categoryTreeCacheKey).Result(); err == nil {
			var tree []*models.CategoryTreeNode
			if err := json.Unmarshal([]byte(cached), &tree); err == nil {
				return c.JSON(http.StatusOK, models.Response{
					Status:  http.StatusOK,
					Message: "Category tree retrieved successfully",
					Data:    tree,
				})
			}
		}
	}

	cursor, err := config.GetCollection(cc.DB, "categories").Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch categories",
		})
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode categories",
		})
	}

	tree := models.BuildCategoryTree(categories)
	if tree == nil {
		tree = []*models.CategoryTreeNode{}
	}

	if rdb := config.GetRedisClient(); rdb != nil {
		if payload, err := json.Marshal(tree); err == nil {
			if err := rdb.Set(ctx, categoryTreeCacheKey, payload, categoryTreeCacheTTL).Err(); err != nil {
				log.Printf("Failed to cache category tree: %v", err)
			}
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Category tree retrieved successfully",
		Data:    tree,
	})
}

func (cc *CategoryController) invalidateTreeCache(ctx context.Context) {
	if rdb := config.GetRedisClient(); rdb != nil {
		if err := rdb.Del(ctx, categoryTreeCacheKey).Err(); err != nil {
			log.Printf("Failed to invalidate category tree cache: %v", err)
		}
	}
}
