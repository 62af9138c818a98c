package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/apex/log"

	"github.com/MLeorio/FALL/models"
)

// ErrNotFound is returned when no row matches the requested id. Handlers
// translate it to a 404; every other store error surfaces as a 500.
var ErrNotFound = errors.New("record not found")

const listingColumns = "id, titre, description, details, actif, statut, created_at, updated_at"

type ListingsService struct {
	db *sql.DB
}

func NewListingsService(db *sql.DB) *ListingsService {
	return &ListingsService{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*models.Listing, error) {
	var (
		listing     models.Listing
		titre       sql.NullString
		description sql.NullString
		details     sql.NullString
	)
	if err := row.Scan(&listing.Id, &titre, &description, &details,
		&listing.Actif, &listing.Statut, &listing.CreatedAt, &listing.UpdatedAt); err != nil {
		return nil, err
	}
	listing.Title = titre.String
	listing.Description = description.String
	if details.Valid {
		if err := json.Unmarshal([]byte(details.String), &listing.Details); err != nil {
			return nil, fmt.Errorf("failed to decode listing details: %w", err)
		}
	}
	return &listing, nil
}

func (s *ListingsService) queryListings(ctx context.Context, query string, args ...any) ([]*models.Listing, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	listings := []*models.Listing{}
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

// ListListings returns every listing in store-default order.
func (s *ListingsService) ListListings(ctx context.Context) ([]*models.Listing, error) {
	return s.queryListings(ctx, "SELECT "+listingColumns+" FROM annonces")
}

// ListPublicListings returns the published open listings (actif = 1).
func (s *ListingsService) ListPublicListings(ctx context.Context) ([]*models.Listing, error) {
	return s.queryListings(ctx,
		"SELECT "+listingColumns+" FROM annonces WHERE actif = ? AND statut = ?",
		1, models.StatutOpen)
}

// ListPrivateListings returns the open listings pending validation (actif = 0).
func (s *ListingsService) ListPrivateListings(ctx context.Context) ([]*models.Listing, error) {
	return s.queryListings(ctx,
		"SELECT "+listingColumns+" FROM annonces WHERE actif = ? AND statut = ?",
		0, models.StatutOpen)
}

// GetListing retrieves one listing by id.
func (s *ListingsService) GetListing(ctx context.Context, id int64) (*models.Listing, error) {
	listing, err := scanListing(s.db.QueryRowContext(ctx,
		"SELECT "+listingColumns+" FROM annonces WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query listing %d: %w", id, err)
	}
	return listing, nil
}

// CreateListing inserts only the provided fields, leaving the rest to the
// schema defaults, and returns the stored row.
func (s *ListingsService) CreateListing(ctx context.Context, in *models.ListingInput) (*models.Listing, error) {
	columns := []string{}
	args := []any{}

	if in.Title != nil {
		columns = append(columns, "titre")
		args = append(args, *in.Title)
	}
	if in.Description != nil {
		columns = append(columns, "description")
		args = append(args, *in.Description)
	}
	if in.Details != nil {
		details, err := json.Marshal(in.Details)
		if err != nil {
			return nil, fmt.Errorf("failed to encode listing details: %w", err)
		}
		columns = append(columns, "details")
		args = append(args, string(details))
	}
	if in.Actif != nil {
		columns = append(columns, "actif")
		args = append(args, *in.Actif)
	}
	if in.Statut != nil {
		columns = append(columns, "statut")
		args = append(args, *in.Statut)
	}

	query := "INSERT INTO annonces () VALUES ()"
	if len(columns) > 0 {
		query = fmt.Sprintf("INSERT INTO annonces (%s) VALUES (%s)",
			strings.Join(columns, ", "),
			strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", "))
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert listing: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted listing id: %w", err)
	}
	log.Infof("Inserted listing with id %d", id)

	return s.GetListing(ctx, id)
}

// UpdateListing applies only the provided fields to the row matching id and
// returns the post-update row. An input with no fields set is a no-op that
// still succeeds. updated_at is left alone; only the publish/resolve
// transitions bump it.
func (s *ListingsService) UpdateListing(ctx context.Context, id int64, in *models.ListingInput) (*models.Listing, error) {
	updates := []string{}
	args := []any{}

	if in.Title != nil {
		updates = append(updates, "titre = ?")
		args = append(args, *in.Title)
	}
	if in.Description != nil {
		updates = append(updates, "description = ?")
		args = append(args, *in.Description)
	}
	if in.Details != nil {
		details, err := json.Marshal(in.Details)
		if err != nil {
			return nil, fmt.Errorf("failed to encode listing details: %w", err)
		}
		updates = append(updates, "details = ?")
		args = append(args, string(details))
	}
	if in.Actif != nil {
		updates = append(updates, "actif = ?")
		args = append(args, *in.Actif)
	}
	if in.Statut != nil {
		updates = append(updates, "statut = ?")
		args = append(args, *in.Statut)
	}

	if len(updates) > 0 {
		args = append(args, id)
		query := fmt.Sprintf("UPDATE annonces SET %s WHERE id = ?", strings.Join(updates, ", "))
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("failed to update listing %d: %w", id, err)
		}
	}

	// The refetch is what surfaces a missing id.
	return s.GetListing(ctx, id)
}

// PublishListing marks the listing active. Idempotent: republishing an
// already-active listing only bumps updated_at.
func (s *ListingsService) PublishListing(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE annonces SET actif = 1, updated_at = NOW() WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to publish listing %d: %w", id, err)
	}
	return nil
}

// ResolveListing marks the item as returned to its owner: statut becomes
// "pupa" and the listing is withdrawn from the public list.
func (s *ListingsService) ResolveListing(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE annonces SET statut = ?, actif = 0, updated_at = NOW() WHERE id = ?",
		models.StatutResolved, id)
	if err != nil {
		return fmt.Errorf("failed to resolve listing %d: %w", id, err)
	}
	return nil
}

// DeleteListing removes the row matching id. This is the one operation that
// checks the affected-row count, so a missing id reports ErrNotFound.
func (s *ListingsService) DeleteListing(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM annonces WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete listing %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted row count for listing %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// RegisterDevice stores one installation record unconditionally: no dedup on
// device_id, repeat installations create new rows. Returns the stored row.
func (s *ListingsService) RegisterDevice(ctx context.Context, in *models.DeviceInput) (*models.Device, error) {
	deviceID := ""
	if in.DeviceID != nil {
		deviceID = *in.DeviceID
	}
	var details any
	if in.Details != nil {
		encoded, err := json.Marshal(in.Details)
		if err != nil {
			return nil, fmt.Errorf("failed to encode device details: %w", err)
		}
		details = string(encoded)
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO devices (device_id, details) VALUES (?, ?)", deviceID, details)
	if err != nil {
		return nil, fmt.Errorf("failed to insert device: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted device id: %w", err)
	}
	log.Infof("Registered device installation %d", id)

	return s.getDevice(ctx, id)
}

func (s *ListingsService) getDevice(ctx context.Context, id int64) (*models.Device, error) {
	var (
		device  models.Device
		details sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, device_id, details, created_at FROM devices WHERE id = ?", id).
		Scan(&device.Id, &device.DeviceID, &details, &device.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query device %d: %w", id, err)
	}
	if details.Valid {
		if err := json.Unmarshal([]byte(details.String), &device.Details); err != nil {
			return nil, fmt.Errorf("failed to decode device details: %w", err)
		}
	}
	return &device, nil
}
