package mongo

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestDuplicateIndex(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "username index",
			err: mongo.WriteException{WriteErrors: []mongo.WriteError{{
				Code:    11000,
				Message: `E11000 duplicate key error collection: accounts.users index: uniq_username dup key: { username: "alice" }`,
			}}},
			want: usernameIndex,
		},
		{
			name: "email index",
			err: mongo.WriteException{WriteErrors: []mongo.WriteError{{
				Code:    11000,
				Message: `E11000 duplicate key error collection: accounts.users index: uniq_email dup key: { email: "a@b.c" }`,
			}}},
			want: emailIndex,
		},
		{
			name: "other duplicate",
			err: mongo.WriteException{WriteErrors: []mongo.WriteError{{
				Code:    11000,
				Message: `E11000 duplicate key error collection: accounts.users index: _id_`,
			}}},
			want: "_id",
		},
		{
			name: "other write error",
			err:  mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 121, Message: "validation failed"}}},
			want: "",
		},
		{
			name: "not a write exception",
			err:  errors.New("connection reset"),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := duplicateIndex(tt.err); got != tt.want {
				t.Errorf("duplicateIndex() = %q, want %q", got, tt.want)
			}
		})
	}
}
