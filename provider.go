// provider.go: Pluggable crypto engine providers.
//
// Operations normally run on the built-in software implementation, but
// deployments backed by PKCS#11 tokens, cloud key services, or other
// hardware can register engine plugins powered by
// github.com/agilira/go-plugins and route selected operations to them.
// The engine manager tracks registered providers, performs health checks,
// and selects a default engine for callers that do not name one.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package crypto

import (
	"context"
	"fmt"
	"sync"
	"time"

	goerrors "github.com/agilira/go-errors"
	goplugins "github.com/agilira/go-plugins"
)

// EngineCapability identifies an operation class an engine can offload.
type EngineCapability string

const (
	EngineCapSymmetric  EngineCapability = "symmetric"  // Symmetric encrypt/decrypt
	EngineCapAsymmetric EngineCapability = "asymmetric" // Public-key encrypt/decrypt
	EngineCapSign       EngineCapability = "sign"       // Signature creation
	EngineCapVerify     EngineCapability = "verify"     // Signature verification
	EngineCapDigest     EngineCapability = "digest"     // Message digests and HMAC
	EngineCapRandom     EngineCapability = "random"     // Hardware RNG
	EngineCapKeyGen     EngineCapability = "keygen"     // On-device key generation
	EngineCapKeyStore   EngineCapability = "keystore"   // Non-extractable key storage
)

// EngineKeyRef describes a key held by an engine. Keys referenced this way
// never leave the provider; operations name the key by ID.
type EngineKeyRef struct {
	ID          string            `json:"id"`          // Provider-scoped key identifier
	Label       string            `json:"label"`       // Human-readable label
	Type        AlgorithmID       `json:"type"`        // Key type from the keyTypes category
	Bits        int               `json:"bits"`        // Key size in bits, 0 for fixed-size types
	CreatedAt   time.Time         `json:"created_at"`  // Creation timestamp
	Extractable bool              `json:"extractable"` // Whether the provider will export the key
	Metadata    map[string]string `json:"metadata"`    // Provider-specific metadata
}

// EngineOpContext carries per-operation context into an engine call.
type EngineOpContext struct {
	Context   context.Context   `json:"-"`         // Cancellation and deadline
	KeyID     string            `json:"key_id"`    // Engine key reference for the operation
	Algorithm AlgorithmID       `json:"algorithm"` // Cipher, digest, or key type being exercised
	Metadata  map[string]string `json:"metadata"`  // Audit metadata
}

// EngineProvider is implemented by crypto engine plugins. Implementations
// must be safe for concurrent use and should report failures with enough
// detail for security auditing.
type EngineProvider interface {
	Name() string
	Version() string
	Capabilities() []EngineCapability

	Initialize(ctx context.Context, config map[string]interface{}) error
	Close() error
	IsHealthy() bool

	GenerateKey(op EngineOpContext, keyType AlgorithmID, params KeyGenParams) (*EngineKeyRef, error)
	ImportKey(op EngineOpContext, material []byte, keyType AlgorithmID) (*EngineKeyRef, error)
	DeleteKey(op EngineOpContext) error
	ListKeys(ctx context.Context) ([]*EngineKeyRef, error)

	Encrypt(op EngineOpContext, plaintext []byte) ([]byte, error)
	Decrypt(op EngineOpContext, ciphertext []byte) ([]byte, error)
	Sign(op EngineOpContext, data []byte) (*SignatureBlock, error)
	Verify(op EngineOpContext, data []byte, signature *SignatureBlock) (bool, error)

	GenerateRandom(ctx context.Context, length int) ([]byte, error)
}

// EngineRequest is the wire request routed to an engine plugin.
type EngineRequest struct {
	Operation string          `json:"operation"` // encrypt, decrypt, sign, verify, keygen, random
	Op        EngineOpContext `json:"op"`        // Operation context
	Data      []byte          `json:"data"`      // Operation payload
}

// EngineResponse is the wire response from an engine plugin.
type EngineResponse struct {
	Success bool          `json:"success"`
	Data    []byte        `json:"data"`
	KeyRef  *EngineKeyRef `json:"key_ref,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// Engine manager errors with stable codes for auditing.
var (
	ErrEngineNotFound    = goerrors.New("ENGINE_001", "crypto engine provider not found")
	ErrEngineUnhealthy   = goerrors.New("ENGINE_002", "crypto engine failed health check")
	ErrEngineInitFailed  = goerrors.New("ENGINE_003", "crypto engine initialization failed")
	ErrEngineUnsupported = goerrors.New("ENGINE_004", "operation not supported by crypto engine")
)

// EngineManagerConfig configures engine registration and selection.
type EngineManagerConfig struct {
	DefaultEngine    string                            `json:"default_engine"`    // Engine used when callers do not name one
	EngineConfigs    map[string]map[string]interface{} `json:"engine_configs"`    // Per-engine initialization config
	OperationTimeout time.Duration                     `json:"operation_timeout"` // Applied to Initialize and plugin calls
}

// EngineManager tracks registered engine providers and routes plugin-backed
// engines through the go-plugins framework.
type EngineManager struct {
	mu            sync.RWMutex
	pluginManager *goplugins.Manager[EngineRequest, EngineResponse]
	engines       map[string]EngineProvider
	defaultEngine string
	config        *EngineManagerConfig
}

// NewEngineManager creates an engine manager. The plugin manager may be nil
// when only in-process providers will be registered.
func NewEngineManager(config *EngineManagerConfig, pluginManager *goplugins.Manager[EngineRequest, EngineResponse]) *EngineManager {
	if config == nil {
		config = &EngineManagerConfig{
			OperationTimeout: 10 * time.Second,
		}
	}
	return &EngineManager{
		pluginManager: pluginManager,
		engines:       make(map[string]EngineProvider),
		config:        config,
	}
}

// RegisterEngine initializes and registers a provider under the given name.
// The first registered engine, or the configured default, becomes the
// engine returned for an empty name.
func (m *EngineManager) RegisterEngine(name string, provider EngineProvider) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if provider == nil {
		return fmt.Errorf("engine provider cannot be nil")
	}

	ctx := context.Background()
	if timeout := m.config.OperationTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := provider.Initialize(ctx, m.config.EngineConfigs[name]); err != nil {
		return fmt.Errorf("%w: engine %s: %w", ErrEngineInitFailed, name, err)
	}

	m.engines[name] = provider
	if m.defaultEngine == "" || m.config.DefaultEngine == name {
		m.defaultEngine = name
	}
	return nil
}

// Engine returns a registered provider by name, or the default provider
// for an empty name. Unhealthy engines are not returned.
func (m *EngineManager) Engine(name string) (EngineProvider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if name == "" {
		name = m.defaultEngine
	}
	provider, ok := m.engines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEngineNotFound, name)
	}
	if !provider.IsHealthy() {
		return nil, fmt.Errorf("%w: %s", ErrEngineUnhealthy, name)
	}
	return provider, nil
}

// Supports reports whether the named engine advertises the capability.
func (m *EngineManager) Supports(name string, cap EngineCapability) bool {
	provider, err := m.Engine(name)
	if err != nil {
		return false
	}
	for _, c := range provider.Capabilities() {
		if c == cap {
			return true
		}
	}
	return false
}

// Close shuts down all registered engines, collecting close failures.
func (m *EngineManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for name, provider := range m.engines {
		if err := provider.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close engine %s: %w", name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to close some engines: %v", errs)
	}
	return nil
}
