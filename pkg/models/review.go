package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a rating of a freelancer. Only its reviewer may edit it.
type Review struct {
	ID           string      `json:"id" dynamodbav:"id"`
	Rating       int         `json:"rating" dynamodbav:"rating"`
	Comment      string      `json:"comment" dynamodbav:"comment"`
	ReviewerID   string      `json:"reviewer_id" dynamodbav:"reviewer_id"`
	ReviewerKind AccountKind `json:"reviewer_kind" dynamodbav:"reviewer_kind"`
	FreelancerID string      `json:"freelancer_id" dynamodbav:"freelancer_id"`
	ProjectID    string      `json:"project_id,omitempty" dynamodbav:"project_id,omitempty"`
	Version      int64       `json:"version" dynamodbav:"version"`
	CreatedAt    time.Time   `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" dynamodbav:"updated_at"`
}

func (r *Review) Clone() *Review {
	c := *r
	return &c
}
