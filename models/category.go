// models/category.go
package models

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is one node of the catalog tree. Root categories have no parent.
// Deletion is a soft delete via isActive.
type Category struct {
	ID        primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string              `json:"name" bson:"name"`
	Slug      string              `json:"slug" bson:"slug"`
	ParentID  *primitive.ObjectID `json:"parentId,omitempty" bson:"parentId,omitempty"`
	Image     string              `json:"image,omitempty" bson:"image,omitempty"`
	SortOrder int                 `json:"sortOrder" bson:"sortOrder"`
	IsActive  bool                `json:"isActive" bson:"isActive"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// CategoryTreeNode is a category with its resolved children.
type CategoryTreeNode struct {
	Category
	Children []*CategoryTreeNode `json:"children"`
}

// BuildCategoryTree groups a flat category list into a nested tree by
// parentId. Children are ordered by sortOrder, then name. Categories whose
// parent is missing from the input are treated as roots.
func BuildCategoryTree(categories []Category) []*CategoryTreeNode {
	nodes := make(map[primitive.ObjectID]*CategoryTreeNode, len(categories))
	for _, cat := range categories {
		nodes[cat.ID] = &CategoryTreeNode{Category: cat, Children: []*CategoryTreeNode{}}
	}

	var roots []*CategoryTreeNode
	for _, cat := range categories {
		node := nodes[cat.ID]
		if cat.ParentID != nil {
			if parent, ok := nodes[*cat.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	var sortNodes func(list []*CategoryTreeNode)
	sortNodes = func(list []*CategoryTreeNode) {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].SortOrder != list[j].SortOrder {
				return list[i].SortOrder < list[j].SortOrder
			}
			return list[i].Name < list[j].Name
		})
		for _, n := range list {
			sortNodes(n.Children)
		}
	}
	sortNodes(roots)

	return roots
}

// CategoryRequest is the create/update payload
type CategoryRequest struct {
	Name      string `json:"name" validate:"required"`
	ParentID  string `json:"parentId,omitempty"`
	SortOrder int    `json:"sortOrder"`
	IsActive  *bool  `json:"isActive,omitempty"`
}
