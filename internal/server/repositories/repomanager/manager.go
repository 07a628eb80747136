// Package repomanager vends repository implementations so services stay
// agnostic of the storage backend. The PostgreSQL manager is the production
// one; the memory manager backs tests and credential-less local runs.
package repomanager

import (
	"github.com/ourunion/unionhub/internal/dbx"
	"github.com/ourunion/unionhub/internal/server/repositories/entities"
	"github.com/ourunion/unionhub/internal/server/repositories/membersauth"
	"github.com/ourunion/unionhub/internal/server/repositories/refreshtokens"
)

type RepositoryManager interface {
	Entities(db dbx.DBTX) entities.Repository
	Accounts(db dbx.DBTX) membersauth.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
