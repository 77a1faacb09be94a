// Package search mirrors products into an Elasticsearch index and queries it.
// A nil *Index is valid and disabled: writes are dropped and Enabled reports
// false so callers can fall back to the database.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/inventory_system/internal/models"
)

const DefaultIndex = "products"

var ErrDisabled = errors.New("search is not configured")

type Index struct {
	es   *elasticsearch.Client
	name string
}

// Connect returns nil, nil when url is empty.
func Connect(url, user, password string) (*Index, error) {
	if url == "" {
		return nil, nil
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return New(client, DefaultIndex), nil
}

func New(client *elasticsearch.Client, name string) *Index {
	return &Index{es: client, name: name}
}

func (i *Index) Enabled() bool {
	return i != nil && i.es != nil
}

func (i *Index) Ping(ctx context.Context) error {
	if !i.Enabled() {
		return ErrDisabled
	}
	res, err := i.es.Info(i.es.Info.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return responseError(res.IsError(), res.Status(), res.Body)
}

func (i *Index) IndexProduct(ctx context.Context, p models.Product) error {
	if !i.Enabled() {
		return nil
	}
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}

	res, err := i.es.Index(
		i.name,
		bytes.NewReader(body),
		i.es.Index.WithContext(ctx),
		i.es.Index.WithDocumentID(strconv.FormatInt(p.ID, 10)),
	)
	if err != nil {
		return fmt.Errorf("index product %d: %w", p.ID, err)
	}
	defer res.Body.Close()
	return responseError(res.IsError(), res.Status(), res.Body)
}

// DeleteProduct ignores a 404 from the index: the document may never have
// been mirrored.
func (i *Index) DeleteProduct(ctx context.Context, id int64) error {
	if !i.Enabled() {
		return nil
	}
	res, err := i.es.Delete(i.name, strconv.FormatInt(id, 10), i.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.StatusCode == 404 {
		return nil
	}
	return responseError(res.IsError(), res.Status(), res.Body)
}

func (i *Index) Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	if !i.Enabled() {
		return 0, nil, ErrDisabled
	}

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := i.es.Search(
		i.es.Search.WithContext(ctx),
		i.es.Search.WithIndex(i.name),
		i.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if err := responseError(res.IsError(), res.Status(), res.Body); err != nil {
		return 0, nil, err
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for n, hit := range r.Hits.Hits {
		prods[n] = hit.Source
	}
	return r.Hits.Total.Value, prods, nil
}

func responseError(isErr bool, status string, body io.Reader) error {
	if !isErr {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(body, 512))
	return fmt.Errorf("elasticsearch: %s: %s", status, bytes.TrimSpace(msg))
}
