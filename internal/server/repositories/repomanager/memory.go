package repomanager

import (
	"github.com/ourunion/unionhub/internal/dbx"
	"github.com/ourunion/unionhub/internal/server/repositories/entities"
	"github.com/ourunion/unionhub/internal/server/repositories/membersauth"
	"github.com/ourunion/unionhub/internal/server/repositories/refreshtokens"
)

// MemoryRepositoryManager vends shared in-memory repositories. The DBTX
// argument is ignored; there is no transactional isolation in this mode.
type MemoryRepositoryManager struct {
	entities      *entities.MemoryRepository
	accounts      *membersauth.MemoryRepository
	refreshTokens *refreshtokens.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		entities:      entities.NewMemoryRepository(),
		accounts:      membersauth.NewMemoryRepository(),
		refreshTokens: refreshtokens.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Entities(db dbx.DBTX) entities.Repository {
	return m.entities
}

func (m *MemoryRepositoryManager) Accounts(db dbx.DBTX) membersauth.Repository {
	return m.accounts
}

func (m *MemoryRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return m.refreshTokens
}
