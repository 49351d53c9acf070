package app

import (
	"fmt"

	"github.com/allisson/secretstore/internal/config"
	"github.com/allisson/secretstore/internal/database"
	"github.com/allisson/secretstore/internal/secrets/repository/bunrepo"
	secretsMySQL "github.com/allisson/secretstore/internal/secrets/repository/mysql"
	secretsPostgreSQL "github.com/allisson/secretstore/internal/secrets/repository/postgresql"
	secretsService "github.com/allisson/secretstore/internal/secrets/service"
	secretsUseCase "github.com/allisson/secretstore/internal/secrets/usecase"
)

// SecretTransformer returns the row to Secret transformer.
func (c *Container) SecretTransformer() (*secretsService.Transformer, error) {
	var err error
	c.secretTransformerInit.Do(func() {
		c.secretTransformer, err = c.initSecretTransformer()
		if err != nil {
			c.setInitError("secretTransformer", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("secretTransformer"); storedErr != nil {
		return nil, storedErr
	}
	return c.secretTransformer, nil
}

// SecretRepository returns the repository selected by SECRET_BACKEND and DB_DRIVER.
func (c *Container) SecretRepository() (secretsUseCase.SecretRepository, error) {
	var err error
	c.secretRepositoryInit.Do(func() {
		c.secretRepository, err = c.initSecretRepository()
		if err != nil {
			c.setInitError("secretRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("secretRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.secretRepository, nil
}

// SecretUseCase returns the secret use case, wrapped with metrics recording.
func (c *Container) SecretUseCase() (secretsUseCase.SecretUseCase, error) {
	var err error
	c.secretUseCaseInit.Do(func() {
		c.secretUseCase, err = c.initSecretUseCase()
		if err != nil {
			c.setInitError("secretUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("secretUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.secretUseCase, nil
}

func (c *Container) initSecretTransformer() (*secretsService.Transformer, error) {
	cryptographer, err := c.ContentCryptographer()
	if err != nil {
		return nil, fmt.Errorf("failed to get cryptographer for secret transformer: %w", err)
	}
	return secretsService.NewTransformer(cryptographer), nil
}

func (c *Container) initSecretRepository() (secretsUseCase.SecretRepository, error) {
	switch c.config.SecretBackend {
	case config.BackendBun:
		bunDB, err := c.BunDB()
		if err != nil {
			return nil, fmt.Errorf("failed to get bun database for secret repository: %w", err)
		}
		return bunrepo.NewBunSecretRepository(bunDB), nil
	case config.BackendSQL:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for secret repository: %w", err)
		}

		switch c.config.DBDriver {
		case database.DriverPostgres:
			return secretsPostgreSQL.NewPostgreSQLSecretRepository(db), nil
		case database.DriverMySQL:
			return secretsMySQL.NewMySQLSecretRepository(db), nil
		default:
			return nil, fmt.Errorf("unsupported database driver for sql backend: %s", c.config.DBDriver)
		}
	default:
		return nil, fmt.Errorf("unsupported secret backend: %s", c.config.SecretBackend)
	}
}

func (c *Container) initSecretUseCase() (secretsUseCase.SecretUseCase, error) {
	secretRepository, err := c.SecretRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret repository for secret use case: %w", err)
	}

	cryptographer, err := c.ContentCryptographer()
	if err != nil {
		return nil, fmt.Errorf("failed to get cryptographer for secret use case: %w", err)
	}

	transformer, err := c.SecretTransformer()
	if err != nil {
		return nil, fmt.Errorf("failed to get transformer for secret use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for secret use case: %w", err)
	}

	useCase := secretsUseCase.NewSecretUseCase(secretRepository, cryptographer, transformer, c.Logger())
	return secretsUseCase.NewSecretUseCaseWithMetrics(useCase, businessMetrics), nil
}
