package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/secretstore/internal/crypto/domain"
	cryptoService "github.com/allisson/secretstore/internal/crypto/service"
)

// KMSService returns the service used to open KMS keepers.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// AEADManager returns the AEAD cipher factory.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// ContentCryptographer returns the cryptographer keyed by the configured master key.
// The master key is unwrapped through KMS when KMS_KEY_URI is set.
func (c *Container) ContentCryptographer() (cryptoService.ContentCryptographer, error) {
	var err error
	c.cryptographerInit.Do(func() {
		c.cryptographer, err = c.initContentCryptographer()
		if err != nil {
			c.setInitError("cryptographer", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("cryptographer"); storedErr != nil {
		return nil, storedErr
	}
	return c.cryptographer, nil
}

// loadMasterKey decodes MASTER_KEY, unwrapping it with the KMS keeper when configured.
func (c *Container) loadMasterKey(ctx context.Context) (*cryptoDomain.MasterKey, error) {
	if c.config.KMSKeyURI == "" {
		return cryptoDomain.LoadMasterKey(ctx, c.config.MasterKey, nil)
	}

	keeper, err := c.KMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			c.Logger().Warn("failed to close KMS keeper", "error", closeErr)
		}
	}()

	return cryptoDomain.LoadMasterKey(ctx, c.config.MasterKey, keeper)
}

func (c *Container) initContentCryptographer() (*cryptoService.HKDFContentCryptographer, error) {
	algorithm, err := cryptoDomain.ParseAlgorithm(c.config.CryptoAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid CRYPTO_ALGORITHM %q: %w", c.config.CryptoAlgorithm, err)
	}

	masterKey, err := c.loadMasterKey(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load master key: %w", err)
	}
	// The cryptographer keeps its own copy.
	defer masterKey.Close()

	cryptographer, err := cryptoService.NewContentCryptographer(masterKey, algorithm, c.AEADManager())
	if err != nil {
		return nil, fmt.Errorf("failed to create content cryptographer: %w", err)
	}

	c.Logger().Debug("content cryptographer ready",
		"algorithm", string(algorithm),
		"kms", c.config.KMSKeyURI != "",
	)
	return cryptographer, nil
}
