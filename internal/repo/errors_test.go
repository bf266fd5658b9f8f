package repo_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/askage/askage-service/internal/repo"
)

func TestIsDup_MatchesAllDriverShapes(t *testing.T) {
	// findAndModify (the registration upsert) reports a unique-index clash
	// as a CommandError value, not a pointer
	ce := mongo.CommandError{Code: 11000, Message: "E11000 duplicate key error"}
	require.True(t, repo.IsDup(ce))
	require.True(t, repo.IsDup(&ce))

	// inserts report it as a WriteException
	we := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
	require.True(t, repo.IsDup(we))
}

func TestIsDup_IgnoresOtherErrors(t *testing.T) {
	require.False(t, repo.IsDup(nil))
	require.False(t, repo.IsDup(fmt.Errorf("plain error")))
	require.False(t, repo.IsDup(mongo.CommandError{Code: 112, Message: "WriteConflict"}))
	require.False(t, repo.IsDup(mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 121}}}))
}
