package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/philippgille/chromem-go"

	"github.com/liao/stylist/internal/catalog"
	"github.com/liao/stylist/internal/embedding"
)

var errNoEmbedding = errors.New("catalog vectors must be supplied with the document")

// Store 按嵌入空间持久化商品向量，每个空间一个 collection
type Store struct {
	db  *chromem.DB
	dir string
}

// OpenStore 创建或加载向量库
func OpenStore(dir string) (*Store, error) {
	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("open vector db: %w", err)
	}
	slog.Info("vector store opened", "dir", dir, "collections", len(db.ListCollections()))
	return &Store{db: db, dir: dir}, nil
}

func (s *Store) collection(space embedding.Space) (*chromem.Collection, error) {
	// 向量总是由调用方提供，collection 自身不做 embedding
	noEmbed := func(context.Context, string) ([]float32, error) { return nil, errNoEmbedding }
	col, err := s.db.GetOrCreateCollection("items/"+string(space), map[string]string{"space": string(space)}, noEmbed)
	if err != nil {
		return nil, fmt.Errorf("get/create collection %s: %w", space, err)
	}
	return col, nil
}

// Load 取回内容与当前搜索文本一致的向量，其余视为过期
func (s *Store) Load(ctx context.Context, space embedding.Space, dim int, items []catalog.Item) (map[string]embedding.Vector, error) {
	col, err := s.collection(space)
	if err != nil {
		return nil, err
	}
	out := make(map[string]embedding.Vector)
	if col.Count() == 0 {
		return out, nil
	}
	for _, it := range items {
		doc, err := col.GetByID(ctx, it.ID)
		if err != nil {
			continue
		}
		if doc.Content != it.SearchText() || len(doc.Embedding) != dim {
			continue
		}
		out[it.ID] = embedding.Vector{Values: doc.Embedding, Space: space}
	}
	return out, nil
}

// Save 写入同一空间的向量，已存在的 ID 会被覆盖
func (s *Store) Save(ctx context.Context, space embedding.Space, items []catalog.Item, vecs []embedding.Vector) error {
	if len(items) != len(vecs) {
		return fmt.Errorf("save vectors: %d items but %d vectors", len(items), len(vecs))
	}
	if len(items) == 0 {
		return nil
	}
	col, err := s.collection(space)
	if err != nil {
		return err
	}
	docs := make([]chromem.Document, 0, len(items))
	for i, it := range items {
		if vecs[i].Space != space {
			return fmt.Errorf("save vectors: item %s is in space %s, want %s", it.ID, vecs[i].Space, space)
		}
		docs = append(docs, chromem.Document{
			ID:        it.ID,
			Content:   it.SearchText(),
			Embedding: vecs[i].Values,
			Metadata:  map[string]string{"category": it.Category, "gender": string(it.Gender)},
		})
	}
	if err := col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	return nil
}

// Count 返回某空间已持久化的向量数
func (s *Store) Count(space embedding.Space) int {
	col, err := s.collection(space)
	if err != nil {
		return 0
	}
	return col.Count()
}
