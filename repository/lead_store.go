package repository

import (
	"context"
	"sync"

	"lead_scoring/models"
)

// LeadStore 已评分线索的追加存储，只提供写入，不对外提供读取
type LeadStore interface {
	Append(ctx context.Context, record models.LeadRecord) error
	Len() int
}

// MemoryLeadStore 是进程内的 LeadStore 实现，无容量上限，进程重启后数据丢失
type MemoryLeadStore struct {
	mu      sync.Mutex
	records []models.LeadRecord
}

func NewMemoryLeadStore() *MemoryLeadStore {
	return &MemoryLeadStore{}
}

func (s *MemoryLeadStore) Append(ctx context.Context, record models.LeadRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *MemoryLeadStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
