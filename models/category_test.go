package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildCategoryTree(t *testing.T) {
	electronics := Category{ID: primitive.NewObjectID(), Name: "Electronics", SortOrder: 2}
	fashion := Category{ID: primitive.NewObjectID(), Name: "Fashion", SortOrder: 1}
	phones := Category{ID: primitive.NewObjectID(), Name: "Phones", ParentID: &electronics.ID, SortOrder: 2}
	laptops := Category{ID: primitive.NewObjectID(), Name: "Laptops", ParentID: &electronics.ID, SortOrder: 1}
	android := Category{ID: primitive.NewObjectID(), Name: "Android", ParentID: &phones.ID}

	tree := BuildCategoryTree([]Category{electronics, fashion, phones, laptops, android})

	require.Len(t, tree, 2)
	assert.Equal(t, "Fashion", tree[0].Name)
	assert.Equal(t, "Electronics", tree[1].Name)

	require.Len(t, tree[1].Children, 2)
	assert.Equal(t, "Laptops", tree[1].Children[0].Name)
	assert.Equal(t, "Phones", tree[1].Children[1].Name)

	require.Len(t, tree[1].Children[1].Children, 1)
	assert.Equal(t, "Android", tree[1].Children[1].Children[0].Name)
}

func TestBuildCategoryTreeSortsByNameOnTie(t *testing.T) {
	b := Category{ID: primitive.NewObjectID(), Name: "Books", SortOrder: 1}
	a := Category{ID: primitive.NewObjectID(), Name: "Art", SortOrder: 1}

	tree := BuildCategoryTree([]Category{b, a})

	require.Len(t, tree, 2)
	assert.Equal(t, "Art", tree[0].Name)
	assert.Equal(t, "Books", tree[1].Name)
}

func TestBuildCategoryTreeOrphanBecomesRoot(t *testing.T) {
	missingParent := primitive.NewObjectID()
	orphan := Category{ID: primitive.NewObjectID(), Name: "Orphan", ParentID: &missingParent}
	root := Category{ID: primitive.NewObjectID(), Name: "Root"}

	tree := BuildCategoryTree([]Category{orphan, root})

	require.Len(t, tree, 2)
	names := []string{tree[0].Name, tree[1].Name}
	assert.Contains(t, names, "Orphan")
	assert.Contains(t, names, "Root")
}

func TestBuildCategoryTreeEmpty(t *testing.T) {
	assert.Empty(t, BuildCategoryTree(nil))
	assert.Empty(t, BuildCategoryTree([]Category{}))
}
