package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Padi142/beer-guesser/internal/domain"
	"github.com/Padi142/beer-guesser/internal/repository"
)

type fakeS3Repo struct {
	objects []repository.ObjectInfo
	listErr error

	deleteErr   error
	deleteCalls int
	deletedKeys []string

	presignGetErr error

	postErr   error
	postCalls int
	lastKey   string
}

func (f *fakeS3Repo) ListObjects(_ context.Context, prefix string) ([]repository.ObjectInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.objects, nil
}

func (f *fakeS3Repo) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.presignGetErr != nil {
		return "", f.presignGetErr
	}
	return "https://signed.example/" + key, nil
}

func (f *fakeS3Repo) DeleteObject(_ context.Context, key string) error {
	f.deleteCalls++
	f.deletedKeys = append(f.deletedKeys, key)
	return f.deleteErr
}

func (f *fakeS3Repo) PresignPost(_ context.Context, key string, _ time.Duration) (*domain.UploadTicket, error) {
	f.postCalls++
	f.lastKey = key
	if f.postErr != nil {
		return nil, f.postErr
	}
	return &domain.UploadTicket{
		URL:    "https://bucket.example/",
		Fields: map[string]string{"key": key},
		Key:    key,
	}, nil
}

func newTestImageService(repo repository.S3Repository, now func() time.Time) *imageService {
	svc := &imageService{
		s3Repo: repo,
		log:    zap.NewNop(),
		now:    time.Now,
	}
	if now != nil {
		svc.now = now
	}
	return svc
}

func TestListImages(t *testing.T) {
	uploaded := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	t.Run("filters non-image keys and strips prefix", func(t *testing.T) {
		repo := &fakeS3Repo{objects: []repository.ObjectInfo{
			{Key: "beers/1700000000000-pilsner.jpg", Size: 123456, LastModified: &uploaded},
			{Key: "beers/readme.txt", Size: 10},
			{Key: "beers/1700000000001-kozel.PNG", Size: 654321, LastModified: &uploaded},
		}}
		svc := newTestImageService(repo, nil)

		images, err := svc.ListImages(context.Background())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(images) != 2 {
			t.Fatalf("Expected 2 images, got %d", len(images))
		}

		first := images[0]
		if first.ID != "beers/1700000000000-pilsner.jpg" {
			t.Errorf("Unexpected id %q", first.ID)
		}
		if first.Filename != "1700000000000-pilsner.jpg" {
			t.Errorf("Expected prefix stripped from filename, got %q", first.Filename)
		}
		if first.Alt != first.Filename {
			t.Errorf("Expected alt to mirror filename, got %q", first.Alt)
		}
		if first.Src != "https://signed.example/beers/1700000000000-pilsner.jpg" {
			t.Errorf("Unexpected src %q", first.Src)
		}
		if first.Size != 123456 {
			t.Errorf("Unexpected size %d", first.Size)
		}
		if first.UploadedAt == nil || !first.UploadedAt.Equal(uploaded) {
			t.Errorf("Unexpected uploadedAt %v", first.UploadedAt)
		}
	})

	t.Run("missing last-modified stays nil", func(t *testing.T) {
		repo := &fakeS3Repo{objects: []repository.ObjectInfo{
			{Key: "beers/bottle.webp", Size: 5000},
		}}
		svc := newTestImageService(repo, nil)

		images, err := svc.ListImages(context.Background())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if images[0].UploadedAt != nil {
			t.Errorf("Expected nil uploadedAt, got %v", images[0].UploadedAt)
		}
	})

	t.Run("empty bucket returns empty slice", func(t *testing.T) {
		svc := newTestImageService(&fakeS3Repo{}, nil)

		images, err := svc.ListImages(context.Background())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if images == nil || len(images) != 0 {
			t.Errorf("Expected empty non-nil slice, got %#v", images)
		}
	})

	t.Run("list error propagates", func(t *testing.T) {
		svc := newTestImageService(&fakeS3Repo{listErr: errors.New("provider down")}, nil)

		if _, err := svc.ListImages(context.Background()); err == nil {
			t.Fatal("Expected error")
		}
	})

	t.Run("presign error propagates", func(t *testing.T) {
		repo := &fakeS3Repo{
			objects:       []repository.ObjectInfo{{Key: "beers/bottle.jpg"}},
			presignGetErr: errors.New("signing failed"),
		}
		svc := newTestImageService(repo, nil)

		if _, err := svc.ListImages(context.Background()); err == nil {
			t.Fatal("Expected error")
		}
	})
}

func TestDeleteImage(t *testing.T) {
	t.Run("rejects key outside prefix without calling storage", func(t *testing.T) {
		repo := &fakeS3Repo{}
		svc := newTestImageService(repo, nil)

		err := svc.DeleteImage(context.Background(), "other/secret.jpg")
		if !errors.Is(err, domain.ErrInvalidKey) {
			t.Fatalf("Expected ErrInvalidKey, got %v", err)
		}
		if repo.deleteCalls != 0 {
			t.Errorf("Expected 0 delete calls, got %d", repo.deleteCalls)
		}
	})

	t.Run("rejects empty key", func(t *testing.T) {
		repo := &fakeS3Repo{}
		svc := newTestImageService(repo, nil)

		if err := svc.DeleteImage(context.Background(), ""); !errors.Is(err, domain.ErrInvalidKey) {
			t.Fatalf("Expected ErrInvalidKey, got %v", err)
		}
		if repo.deleteCalls != 0 {
			t.Errorf("Expected 0 delete calls, got %d", repo.deleteCalls)
		}
	})

	t.Run("deletes key under prefix", func(t *testing.T) {
		repo := &fakeS3Repo{}
		svc := newTestImageService(repo, nil)

		if err := svc.DeleteImage(context.Background(), "beers/bottle.jpg"); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if repo.deleteCalls != 1 || repo.deletedKeys[0] != "beers/bottle.jpg" {
			t.Errorf("Unexpected delete calls %d %v", repo.deleteCalls, repo.deletedKeys)
		}
	})

	t.Run("provider error propagates", func(t *testing.T) {
		repo := &fakeS3Repo{deleteErr: errors.New("provider down")}
		svc := newTestImageService(repo, nil)

		if err := svc.DeleteImage(context.Background(), "beers/bottle.jpg"); err == nil {
			t.Fatal("Expected error")
		}
	})
}

func TestCreateUploadTicket(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)

	t.Run("key format", func(t *testing.T) {
		repo := &fakeS3Repo{}
		svc := newTestImageService(repo, func() time.Time { return fixed })

		ticket, err := svc.CreateUploadTicket(context.Background(), "a b/c?.png")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		expected := "beers/1700000000000-a_b_c_.png"
		if ticket.Key != expected {
			t.Errorf("Expected key %q, got %q", expected, ticket.Key)
		}
		if repo.lastKey != expected {
			t.Errorf("Expected presign for %q, got %q", expected, repo.lastKey)
		}
	})

	t.Run("key matches prefix-millis-name shape", func(t *testing.T) {
		// Keys are only as unique as the clock's millisecond; assert
		// the shape, not uniqueness.
		repo := &fakeS3Repo{}
		svc := newTestImageService(repo, nil)

		ticket, err := svc.CreateUploadTicket(context.Background(), "bottle.jpg")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		pattern := regexp.MustCompile(`^beers/\d+-bottle\.jpg$`)
		if !pattern.MatchString(ticket.Key) {
			t.Errorf("Key %q does not match %s", ticket.Key, pattern)
		}
	})

	t.Run("ticket passes through url and fields", func(t *testing.T) {
		repo := &fakeS3Repo{}
		svc := newTestImageService(repo, func() time.Time { return fixed })

		ticket, err := svc.CreateUploadTicket(context.Background(), "bottle.jpg")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if ticket.URL != "https://bucket.example/" {
			t.Errorf("Unexpected url %q", ticket.URL)
		}
		if got := ticket.Fields["key"]; got != ticket.Key {
			t.Errorf("Expected key field %q, got %q", ticket.Key, got)
		}
	})

	t.Run("provider error propagates", func(t *testing.T) {
		repo := &fakeS3Repo{postErr: errors.New("provider down")}
		svc := newTestImageService(repo, nil)

		if _, err := svc.CreateUploadTicket(context.Background(), "bottle.jpg"); err == nil {
			t.Fatal("Expected error")
		}
	})
}

func TestCreateUploadTicketMillisPrecision(t *testing.T) {
	// Two tickets in the same millisecond collide by design.
	repo := &fakeS3Repo{}
	fixed := time.UnixMilli(1700000000000)
	svc := newTestImageService(repo, func() time.Time { return fixed })

	a, err := svc.CreateUploadTicket(context.Background(), "bottle.jpg")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b, err := svc.CreateUploadTicket(context.Background(), "bottle.jpg")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if a.Key != b.Key {
		t.Errorf("Expected identical keys within one millisecond, got %q and %q", a.Key, b.Key)
	}
	if expected := fmt.Sprintf("beers/%d-bottle.jpg", fixed.UnixMilli()); a.Key != expected {
		t.Errorf("Expected key %q, got %q", expected, a.Key)
	}
}
