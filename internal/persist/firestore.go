package persist

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/projecthub-dashboard/internal/errs"
)

const firestoreBlobCollection = "dashboard_state"

type blobDoc struct {
	Name      string    `firestore:"name"`
	Data      []byte    `firestore:"data"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

type firestoreBlobStore struct {
	client *firestore.Client
}

func NewFirestoreBlobStore(client *firestore.Client) *firestoreBlobStore {
	return &firestoreBlobStore{client: client}
}

func (s *firestoreBlobStore) collection() *firestore.CollectionRef {
	return s.client.Collection(firestoreBlobCollection)
}

func (s *firestoreBlobStore) Load(ctx context.Context, name string) ([]byte, error) {
	doc, err := s.collection().Doc(name).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrBlobNotFound
		}
		return nil, errs.NewDatabaseError("read", "failed to get blob", err)
	}
	var b blobDoc
	if err := doc.DataTo(&b); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse blob document", err)
	}
	return b.Data, nil
}

func (s *firestoreBlobStore) Save(ctx context.Context, name string, data []byte) error {
	if name == "" {
		return errs.NewDatabaseError("update", "blob name is required", errors.New("empty name"))
	}
	_, err := s.collection().Doc(name).Set(ctx, blobDoc{
		Name:      name,
		Data:      data,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return errs.NewDatabaseError("update", "failed to save blob", err)
	}
	return nil
}
