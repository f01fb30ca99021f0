package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"anoa.com/academicrecords/internal/entity"
	"github.com/meilisearch/meilisearch-go"
)

const (
	usersIndex   = "users"
	modulesIndex = "modules"
)

// UserDoc is the searchable projection of a user. Credentials never leave
// the store.
type UserDoc struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type ModuleDoc struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	LeaderID   string `json:"leader_id"`
	LecturerID string `json:"lecturer_id"`
}

// SearchService keeps the directory indexes in step with the flat files.
type SearchService interface {
	Enabled() bool
	IndexUsers(users ...*entity.User) error
	DeleteUser(id string) error
	IndexModules(modules ...*entity.Module) error
	DeleteModule(code string) error
	SearchUsers(ctx context.Context, query string, role entity.Role, limit int) ([]UserDoc, error)
}

type meiliSearchService struct {
	client meilisearch.ServiceManager
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{client: client}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	filterable := []any{"role"}
	if _, err := s.client.Index(usersIndex).UpdateFilterableAttributes(&filterable); err != nil {
		log.Printf("Failed to update users filterable attributes: %v", err)
	}

	moduleFilterable := []any{"leader_id", "lecturer_id"}
	if _, err := s.client.Index(modulesIndex).UpdateFilterableAttributes(&moduleFilterable); err != nil {
		log.Printf("Failed to update modules filterable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

func (s *meiliSearchService) Enabled() bool {
	return true
}

func (s *meiliSearchService) IndexUsers(users ...*entity.User) error {
	if len(users) == 0 {
		return nil
	}
	docs := make([]UserDoc, 0, len(users))
	for _, u := range users {
		docs = append(docs, NewUserDoc(u))
	}
	task, err := s.client.Index(usersIndex).AddDocuments(docs, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed %d users, task id: %d", len(docs), task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeleteUser(id string) error {
	_, err := s.client.Index(usersIndex).DeleteDocument(id)
	return err
}

func (s *meiliSearchService) IndexModules(modules ...*entity.Module) error {
	if len(modules) == 0 {
		return nil
	}
	docs := make([]ModuleDoc, 0, len(modules))
	for _, m := range modules {
		docs = append(docs, NewModuleDoc(m))
	}
	task, err := s.client.Index(modulesIndex).AddDocuments(docs, strPtr("code"))
	if err != nil {
		return err
	}
	log.Printf("Indexed %d modules, task id: %d", len(docs), task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeleteModule(code string) error {
	_, err := s.client.Index(modulesIndex).DeleteDocument(code)
	return err
}

func (s *meiliSearchService) SearchUsers(ctx context.Context, query string, role entity.Role, limit int) ([]UserDoc, error) {
	req := &meilisearch.SearchRequest{Limit: int64(limit)}
	if role != "" {
		req.Filter = fmt.Sprintf("role = '%s'", role)
	}

	raw, err := s.client.Index(usersIndex).SearchRaw(query, req)
	if err != nil {
		return nil, fmt.Errorf("meilisearch query failed: %w", err)
	}

	var res struct {
		Hits []UserDoc `json:"hits"`
	}
	if raw != nil {
		if err := json.Unmarshal(*raw, &res); err != nil {
			return nil, fmt.Errorf("decode search hits: %w", err)
		}
	}
	if res.Hits == nil {
		res.Hits = []UserDoc{}
	}
	return res.Hits, nil
}

func NewUserDoc(u *entity.User) UserDoc {
	return UserDoc{
		ID:       u.ID,
		FullName: u.FullName,
		Role:     string(u.Role),
		Email:    u.Email,
		Phone:    u.Phone,
	}
}

func NewModuleDoc(m *entity.Module) ModuleDoc {
	doc := ModuleDoc{Code: m.Code, Name: m.Name, LeaderID: m.LeaderID}
	if m.LecturerID != nil {
		doc.LecturerID = *m.LecturerID
	}
	return doc
}

func strPtr(s string) *string {
	return &s
}

// localSearchService is used when no search engine is configured. Indexing is
// a no-op and searches are answered by the caller's fallback.
type localSearchService struct{}

func NewLocalSearchService() SearchService {
	return localSearchService{}
}

func (localSearchService) Enabled() bool                        { return false }
func (localSearchService) IndexUsers(...*entity.User) error     { return nil }
func (localSearchService) DeleteUser(string) error              { return nil }
func (localSearchService) IndexModules(...*entity.Module) error { return nil }
func (localSearchService) DeleteModule(string) error            { return nil }

func (localSearchService) SearchUsers(context.Context, string, entity.Role, int) ([]UserDoc, error) {
	return nil, fmt.Errorf("search engine not configured")
}

// MatchUser reports whether every word of query occurs in the user's id,
// name, email or phone, ignoring case.
func MatchUser(u *entity.User, query string) bool {
	haystack := strings.ToLower(strings.Join([]string{u.ID, u.FullName, u.Email, u.Phone}, " "))
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if !strings.Contains(haystack, word) {
			return false
		}
	}
	return true
}
