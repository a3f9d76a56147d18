package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/i474232898/angin-nusantara/internal/cities"
)

// CitiesCollection is the Firestore collection holding saved cities.
const CitiesCollection = "savedCities"

// NewFirestoreClient initializes a Firebase app and returns its Firestore client.
// encodedCreds is a base64-encoded service-account JSON; when empty, application
// default credentials (or FIRESTORE_EMULATOR_HOST) are used.
func NewFirestoreClient(ctx context.Context, projectID, encodedCreds string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if encodedCreds != "" {
		creds, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			return nil, fmt.Errorf("decoding firebase credentials: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(creds))
	}

	var cfg *firebase.Config
	if projectID != "" {
		cfg = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting firestore client: %w", err)
	}
	return client, nil
}

// FirestoreStore implements cities.Repository on Cloud Firestore.
// Listing by user needs a composite index on (userId ASC, createdAt DESC).
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new FirestoreStore.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) collection() *firestore.CollectionRef {
	return s.client.Collection(CitiesCollection)
}

func (s *FirestoreStore) byName(userID, cityName string) firestore.Query {
	return s.collection().
		Where("userId", "==", userID).
		Where("cityName", "==", cityName).
		Limit(1)
}

func (s *FirestoreStore) FindByName(ctx context.Context, userID, cityName string) (*cities.SavedCity, error) {
	docs, err := s.byName(userID, cityName).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("querying %s by name: %w", CitiesCollection, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	c, err := decodeCity(docs[0])
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create re-checks (userId, cityName) inside a transaction before inserting,
// so concurrent saves of the same city cannot both succeed.
func (s *FirestoreStore) Create(ctx context.Context, city cities.SavedCity) (cities.SavedCity, error) {
	ref := s.collection().NewDoc()

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(s.byName(city.UserID, city.CityName)).GetAll()
		if err != nil {
			return fmt.Errorf("checking existing city: %w", err)
		}
		if len(docs) > 0 {
			return cities.ErrDuplicate
		}
		return tx.Create(ref, city)
	})
	if err != nil {
		return cities.SavedCity{}, err
	}

	city.ID = ref.ID
	return city, nil
}

func (s *FirestoreStore) Get(ctx context.Context, id string) (cities.SavedCity, error) {
	doc, err := s.collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return cities.SavedCity{}, cities.ErrNotFound
		}
		return cities.SavedCity{}, fmt.Errorf("getting city %s: %w", id, err)
	}
	return decodeCity(doc)
}

func (s *FirestoreStore) ListByUser(ctx context.Context, userID string) ([]cities.SavedCity, error) {
	iter := s.collection().
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	result := []cities.SavedCity{}
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing cities for %s: %w", userID, err)
		}

		c, err := decodeCity(doc)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, nil
}

func (s *FirestoreStore) CountByUser(ctx context.Context, userID string) (int, error) {
	docs, err := s.collection().Where("userId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return 0, fmt.Errorf("counting cities for %s: %w", userID, err)
	}
	return len(docs), nil
}

func (s *FirestoreStore) UpdateWeather(ctx context.Context, id string, data cities.WeatherData, updatedAt time.Time) error {
	_, err := s.collection().Doc(id).Update(ctx, []firestore.Update{
		{Path: "weatherData", Value: data},
		{Path: "lastUpdated", Value: updatedAt},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return cities.ErrNotFound
		}
		return fmt.Errorf("updating weather of %s: %w", id, err)
	}
	return nil
}

// Delete removes the document. Deleting a missing document is reported as ErrNotFound.
func (s *FirestoreStore) Delete(ctx context.Context, id string) error {
	_, err := s.collection().Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return cities.ErrNotFound
		}
		return fmt.Errorf("deleting city %s: %w", id, err)
	}
	return nil
}

func decodeCity(doc *firestore.DocumentSnapshot) (cities.SavedCity, error) {
	var c cities.SavedCity
	if err := doc.DataTo(&c); err != nil {
		return cities.SavedCity{}, fmt.Errorf("decoding city %s: %w", doc.Ref.ID, err)
	}
	c.ID = doc.Ref.ID
	return c, nil
}
