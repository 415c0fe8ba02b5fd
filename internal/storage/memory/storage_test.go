package memory

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/storage"
	"github.com/mcoot/wordmaster/internal/storage/storagetest"
)

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func() storage.Storage { return New() },
	})
}

func TestGetGameReturnsCopy(t *testing.T) {
	s := New()
	ctx := t.Context()
	_ = s.SaveGame(ctx, &model.GameRecord{Name: "x", Data: []byte("abc")})

	got, _ := s.GetGame(ctx, "x")
	got.Data[0] = 'z'

	again, _ := s.GetGame(ctx, "x")
	if string(again.Data) != "abc" {
		t.Fatalf("stored data was mutated through returned record: %q", again.Data)
	}
}
