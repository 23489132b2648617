package models

import "time"

const OrderStatusConfirmed = "confirmed"

type ShippingDetails struct {
	CustomerName string `json:"customer_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

type OrderItem struct {
	ID              int64    `json:"id"`
	OrderID         int64    `json:"-"`
	ProductID       int64    `json:"product_id"`
	Quantity        int      `json:"quantity"`
	PriceAtPurchase float64  `json:"price_at_purchase"`
	Product         *Product `json:"product,omitempty"`
}

type Order struct {
	ID          int64  `json:"id"`
	OrderNumber string `json:"order_number"`
	UserID      int64  `json:"-"`
	ShippingDetails
	TotalAmount float64     `json:"total_amount"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	Items       []OrderItem `json:"items"`
}
