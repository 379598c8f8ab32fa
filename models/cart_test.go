package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCartSubtotal(t *testing.T) {
	cart := &Cart{Items: []CartItem{
		{ProductID: primitive.NewObjectID(), Price: 199.5, Quantity: 2},
		{ProductID: primitive.NewObjectID(), Price: 50, Quantity: 1},
	}}
	assert.InDelta(t, 449.0, cart.Subtotal(), 0.001)

	empty := &Cart{}
	assert.Zero(t, empty.Subtotal())
}

func TestCartSetItem(t *testing.T) {
	productID := primitive.NewObjectID()
	cart := &Cart{}

	cart.SetItem(CartItem{ProductID: productID, Name: "Widget", Price: 10, Quantity: 1})
	require.Len(t, cart.Items, 1)

	// Same product replaces the quantity instead of adding a line
	cart.SetItem(CartItem{ProductID: productID, Name: "Widget", Price: 10, Quantity: 5})
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	cart.SetItem(CartItem{ProductID: primitive.NewObjectID(), Name: "Gadget", Price: 20, Quantity: 1})
	assert.Len(t, cart.Items, 2)
}

func TestCartRemoveItem(t *testing.T) {
	productID := primitive.NewObjectID()
	cart := &Cart{Items: []CartItem{
		{ProductID: productID, Quantity: 1},
	}}

	assert.True(t, cart.RemoveItem(productID))
	assert.Empty(t, cart.Items)
	assert.False(t, cart.RemoveItem(productID))
}
