package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// CartItem is one menu item placed in a user's cart. The price is a
// snapshot taken when the item was added.
type CartItem struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	MenuID string             `bson:"menuId" json:"menuId"`
	Email  string             `bson:"email" json:"email"`
	Name   string             `bson:"name,omitempty" json:"name,omitempty"`
	Image  string             `bson:"image,omitempty" json:"image,omitempty"`
	Price  float64            `bson:"price" json:"price"`
}
