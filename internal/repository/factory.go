package repository

import (
	"github.com/storegrid/backoffice/internal/domain/channel"
	"github.com/storegrid/backoffice/internal/domain/group"
	"github.com/storegrid/backoffice/internal/domain/product"
	"github.com/storegrid/backoffice/internal/domain/territory"
	"github.com/storegrid/backoffice/internal/domain/tier"
	"github.com/storegrid/backoffice/internal/postgres"
	postgresRepo "github.com/storegrid/backoffice/internal/repository/postgres"
)

func NewTierRepository(client *postgres.Client) tier.Repository {
	return postgresRepo.NewTierRepository(client)
}

func NewTerritoryRepository(client *postgres.Client) territory.Repository {
	return postgresRepo.NewTerritoryRepository(client)
}

func NewGroupRepository(client *postgres.Client) group.Repository {
	return postgresRepo.NewGroupRepository(client)
}

func NewProductRepository(client *postgres.Client) product.Repository {
	return postgresRepo.NewProductRepository(client)
}

func NewChannelRepository(client *postgres.Client) channel.Repository {
	return postgresRepo.NewChannelRepository(client)
}
