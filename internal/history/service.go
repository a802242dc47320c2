package history

import (
	"context"
	"fmt"
	"sort"
)

// DocumentInfo carries the document fields the version listing needs.
type DocumentInfo struct {
	CurrentVersion int
	FileURL        string
}

// DocumentLookup resolves a document's current version and file URL.
type DocumentLookup interface {
	VersionInfo(ctx context.Context, documentID string) (DocumentInfo, error)
}

// UserDirectory resolves usernames for display.
type UserDirectory interface {
	UsernamesByID(ctx context.Context, ids []string) (map[string]string, error)
}

// Service exposes the audit trail and derived version listing.
type Service struct {
	Repo  Repo
	Docs  DocumentLookup
	Users UserDirectory
}

// List returns a document's audit trail oldest first, with actor usernames
// resolved.
func (s *Service) List(ctx context.Context, documentID string) ([]Entry, error) {
	entries, err := s.Repo.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	if len(entries) == 0 || s.Users == nil {
		return entries, nil
	}

	ids := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.ActionBy]; !ok {
			seen[entry.ActionBy] = struct{}{}
			ids = append(ids, entry.ActionBy)
		}
	}

	names, err := s.Users.UsernamesByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve usernames: %w", err)
	}
	for i := range entries {
		entries[i].ActionByUsername = names[entries[i].ActionBy]
	}
	return entries, nil
}

// Versions derives the distinct versions of a document: the document's
// current version, every upload recorded in history, and a synthesized
// version 1 when neither produced one (guards against a missing initial
// upload entry). Sorted highest version first.
func (s *Service) Versions(ctx context.Context, documentID string) ([]Version, error) {
	doc, err := s.Docs.VersionInfo(ctx, documentID)
	if err != nil {
		return nil, err
	}

	uploads, err := s.Repo.ListUploads(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}

	seen := make(map[int]struct{})
	versions := []Version{{Version: doc.CurrentVersion, FileURL: doc.FileURL}}
	seen[doc.CurrentVersion] = struct{}{}

	for _, entry := range uploads {
		if _, ok := seen[entry.Version]; ok {
			continue
		}
		seen[entry.Version] = struct{}{}
		versions = append(versions, Version{Version: entry.Version, FileURL: entry.FileURL})
	}

	if _, ok := seen[1]; !ok {
		versions = append(versions, Version{Version: 1, FileURL: doc.FileURL})
	}

	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Version > versions[j].Version
	})
	return versions, nil
}
