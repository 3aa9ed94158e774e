package models

import (
	"time"
)

// CuisineDocument model - MongoDB (catalog snapshot)
// Prices are kept as decimal strings so no precision is lost in BSON.
type CuisineDocument struct {
	CuisineID       string         `bson:"_id" json:"cuisine_id"`
	CuisineName     string         `bson:"cuisine_name" json:"cuisine_name"`
	CuisineImageURL string         `bson:"cuisine_image_url" json:"cuisine_image_url"`
	Items           []ItemDocument `bson:"items" json:"items"`
	Position        int            `bson:"position" json:"position"` // order within the fetched catalog
	UpdatedAt       time.Time      `bson:"updated_at" json:"updated_at"`
}

// ItemDocument is an Item embedded in a CuisineDocument
type ItemDocument struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	ImageURL string `bson:"image_url" json:"image_url"`
	Price    string `bson:"price" json:"price"`
	Rating   string `bson:"rating" json:"rating"`
}

func NewCuisineDocument(cuisine Cuisine, position int, updatedAt time.Time) CuisineDocument {
	items := make([]ItemDocument, 0, len(cuisine.Items))
	for _, item := range cuisine.Items {
		items = append(items, ItemDocument{
			ID:       item.ID,
			Name:     item.Name,
			ImageURL: item.ImageURL,
			Price:    item.Price.String(),
			Rating:   item.Rating.String(),
		})
	}

	return CuisineDocument{
		CuisineID:       cuisine.CuisineID,
		CuisineName:     cuisine.CuisineName,
		CuisineImageURL: cuisine.CuisineImageURL,
		Items:           items,
		Position:        position,
		UpdatedAt:       updatedAt,
	}
}

func (d CuisineDocument) ToCuisine() Cuisine {
	items := make([]Item, 0, len(d.Items))
	for _, doc := range d.Items {
		items = append(items, doc.ToItem())
	}

	return Cuisine{
		CuisineID:       d.CuisineID,
		CuisineName:     d.CuisineName,
		CuisineImageURL: d.CuisineImageURL,
		Items:           items,
	}
}

func (d ItemDocument) ToItem() Item {
	return NewItem(d.ID, d.Name, d.ImageURL, d.Price, d.Rating)
}
