package repo

import (
	"context"
	"crypto/subtle"

	"github.com/askage/askage-service/internal/domain"
	"github.com/askage/askage-service/internal/security"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RegisterGoogleUser upserts the user for a verified Google subject and
// returns a fresh "<user_id>:<session_token>" credential. One store round
// trip: the upsert keyed on google_sub either rotates the existing user's
// email+token or inserts a new user, so concurrent identical logins cannot
// create duplicates (the unique index backs this up).
func (s *Store) RegisterGoogleUser(ctx context.Context, googleSub, email string) (string, error) {
	if googleSub == "" || email == "" {
		return "", ErrInvalidArgument
	}

	token, err := security.NewSessionToken()
	if err != nil {
		return "", err
	}

	// Two concurrent upserts for a brand-new sub can both take the insert
	// path; the unique index fails one with E11000. Retrying turns that
	// loser into the update path against the winner's document.
	var u domain.User
	for attempt := 0; ; attempt++ {
		res := s.colUsers.FindOneAndUpdate(ctx,
			bson.M{"google_sub": googleSub},
			bson.M{"$set": bson.M{"email": email, "session_token": token}},
			options.FindOneAndUpdate().
				SetUpsert(true).
				SetReturnDocument(options.After),
		)
		err := res.Decode(&u)
		if err == nil {
			break
		}
		if IsDup(err) && attempt == 0 {
			continue
		}
		return "", wrapStore("users.upsert", err)
	}
	return security.Credential(u.ID.Hex(), token), nil
}

func (s *Store) FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var u domain.User
	err := s.colUsers.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapStore("users.find", err)
	}
	return &u, nil
}

// VerifyAuthToken reports whether token is the current session token of the
// given user. It never returns an error: malformed ids, missing users and
// I/O failures all read as "not authorized", which keeps the check total.
// The comparison is constant-time so a bearer token can't be guessed
// byte-by-byte off response latency.
func (s *Store) VerifyAuthToken(ctx context.Context, userID, token string) bool {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false
	}
	u, err := s.FindUserByID(ctx, oid)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(u.SessionToken), []byte(token)) == 1
}
