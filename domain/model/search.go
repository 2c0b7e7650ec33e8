package model

import "time"

// VideoSearchRequest is one logged search issued through the browse UI.
// Kept as a document so past searches can be replayed and inspected.
type VideoSearchRequest struct {
	ID         string    `json:"id" bson:"_id"`
	Query      string    `json:"query" bson:"query"`
	Kind       string    `json:"kind" bson:"kind"`
	RegionCode string    `json:"region_code" bson:"region_code"`
	Language   string    `json:"language" bson:"language"`
	SafeSearch string    `json:"safe_search" bson:"safe_search"`
	Order      string    `json:"order" bson:"order"`
	MaxResults int64     `json:"max_results" bson:"max_results"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
