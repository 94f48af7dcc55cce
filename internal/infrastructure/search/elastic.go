// Package search mirrors posts and users into Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
)

const (
	defaultSize = 10
	maxSize     = 50
)

type Index struct {
	ES         *elasticsearch.Client
	PostsIndex string
	UsersIndex string
	Timeout    time.Duration
}

func NewIndex(es *elasticsearch.Client, postsIndex, usersIndex string) *Index {
	return &Index{ES: es, PostsIndex: postsIndex, UsersIndex: usersIndex, Timeout: 3 * time.Second}
}

type postDoc struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type userDoc struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Description string `json:"description"`
	AvatarURL   string `json:"avatar_url"`
}

func (ix *Index) IndexPost(ctx context.Context, p *entity.Post, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	return ix.put(ctx, ix.PostsIndex, p.ID, postDoc{
		ID: p.ID, Title: p.Title, Content: p.Content, Tags: tags,
		UserID: p.UserID, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	})
}

func (ix *Index) DeletePost(ctx context.Context, id int64) error {
	return ix.delete(ctx, ix.PostsIndex, id)
}

// SearchPosts runs a multi_match over title, content and tags.
func (ix *Index) SearchPosts(ctx context.Context, q string, size int) ([]int64, error) {
	return ix.search(ctx, ix.PostsIndex, q, []string{"title^2", "content", "tags"}, size)
}

func (ix *Index) IndexUser(ctx context.Context, u *entity.User) error {
	return ix.put(ctx, ix.UsersIndex, u.ID, userDoc{
		ID: u.ID, Name: u.Name, Email: u.Email, Description: u.Description, AvatarURL: u.AvatarURL,
	})
}

func (ix *Index) DeleteUser(ctx context.Context, id int64) error {
	return ix.delete(ctx, ix.UsersIndex, id)
}

// SearchUsers performs a simple multi_match search on email and name.
func (ix *Index) SearchUsers(ctx context.Context, q string, size int) ([]int64, error) {
	return ix.search(ctx, ix.UsersIndex, q, []string{"email^2", "name", "description"}, size)
}

func (ix *Index) put(ctx context.Context, index string, id int64, doc any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: index, DocumentID: strconv.FormatInt(id, 10), Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, ix.Timeout)
	defer cancel()
	res, err := req.Do(c, ix.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s/%d: %s", index, id, res.Status())
	}
	return nil
}

func (ix *Index) delete(ctx context.Context, index string, id int64) error {
	req := esapi.DeleteRequest{Index: index, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, ix.Timeout)
	defer cancel()
	res, err := req.Do(c, ix.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete %s/%d: %s", index, id, res.Status())
	}
	return nil
}

func (ix *Index) search(ctx context.Context, index, q string, fields []string, size int) ([]int64, error) {
	if size <= 0 || size > maxSize {
		size = defaultSize
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": fields,
			},
		},
		"size":    size,
		"_source": false,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, ix.Timeout)
	defer cancel()

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(c),
		ix.ES.Search.WithIndex(index),
		ix.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search %s: %s", index, res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]int64, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		id, err := strconv.ParseInt(h.ID, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}
