package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartStatus string

const (
	// CartStatusPending means the payment is recorded but its cart items
	// may still be present and need reconciliation.
	CartStatusPending CartStatus = "pending"
	CartStatusCleared CartStatus = "cleared"
)

type Payment struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Email         string               `bson:"email" json:"email"`
	Amount        float64              `bson:"amount" json:"amount"`
	TransactionID string               `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	CartIDs       []primitive.ObjectID `bson:"cartIds" json:"cartIds"`
	MenuItemIDs   []string             `bson:"menuItemIds,omitempty" json:"menuItemIds,omitempty"`
	Status        string               `bson:"status,omitempty" json:"status,omitempty"`
	CartStatus    CartStatus           `bson:"cartStatus" json:"cartStatus"`
	Date          time.Time            `bson:"date" json:"date"`
}

type AdminStats struct {
	Users     int64   `json:"users"`
	MenuItems int64   `json:"menuItems"`
	Reviews   int64   `json:"reviews"`
	Orders    int64   `json:"orders"`
	Revenue   float64 `json:"revenue"`
}
