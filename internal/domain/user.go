package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"  json:"id"`
	GoogleSub    string             `bson:"google_sub"     json:"google_sub"` // Google OIDC subject, unique
	Email        string             `bson:"email"          json:"email"`
	SessionToken string             `bson:"session_token"  json:"-"`
}
