// Package nvs manages the flash-backed key-value partition lifecycle: init,
// erase and deinit over the storage driver, with the partition handle acting
// as the initialized-state token.
package nvs

import (
	"errors"

	"github.com/edaniels/golog"
	"go.uber.org/zap"

	"esphal-go/driver"
	"esphal-go/errcode"
	"esphal-go/peripherals"
)

// MaxPartitionIDSize bounds a partition name, in bytes.
const MaxPartitionIDSize = 16

// PartitionID selects a flash partition. Only the default partition is
// backed by the driver surface; named partitions are reserved.
type PartitionID struct {
	name  [MaxPartitionIDSize]byte
	named bool
}

// DefaultPartition selects the default flash partition.
func DefaultPartition() PartitionID { return PartitionID{} }

// NamedPartition selects a partition by name, at most 16 bytes.
func NamedPartition(name string) (PartitionID, error) {
	if len(name) == 0 || len(name) > MaxPartitionIDSize {
		return PartitionID{}, errcode.Wrap(errcode.InvalidPartitionID, "nvs.named_partition", nil)
	}
	var id PartitionID
	copy(id.name[:], name)
	id.named = true
	return id, nil
}

// Partition is the handle to an initialized partition. Returning it to
// DeinitPartition downgrades the store.
type Partition struct {
	store *Store
}

// Store owns the storage peripheral. At most one partition (the default one)
// is initialized at a time.
type Store struct {
	drv         driver.Storage
	log         golog.Logger
	initialized bool
}

// NewStore consumes the storage token.
func NewStore(tok *peripherals.NVSToken, drv driver.Storage, logger golog.Logger) (*Store, error) {
	if err := tok.Consume(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Store{drv: drv, log: logger}, nil
}

// InitPartition mounts a partition. A corrupted partition (no free pages, or
// a layout written by a newer firmware) surfaces as partition_corrupted and
// is recoverable through ErasePartition.
func (s *Store) InitPartition(id PartitionID) (*Partition, error) {
	if id.named {
		return nil, errcode.Wrap(errcode.InvalidPartitionID, "nvs.init_partition", nil)
	}
	if s.initialized {
		return nil, errcode.Wrap(errcode.AlreadyInitialized, "nvs.init_partition", nil)
	}
	switch st := s.drv.FlashInit(); st {
	case driver.StatusOK:
		s.initialized = true
		s.log.Debugw("nvs partition initialized")
		return &Partition{store: s}, nil
	case driver.StatusNVSNoFreePages, driver.StatusNVSNewVersionFound:
		return nil, errcode.Wrap(errcode.PartitionCorrupted, "nvs.init_partition", st)
	case driver.StatusNVSNotFound:
		return nil, errcode.Wrap(errcode.PartitionNotFound, "nvs.init_partition", st)
	default:
		return nil, errcode.Wrap(errcode.Driver, "nvs.init_partition", st)
	}
}

// ErasePartition wipes a partition. The partition must not be mounted.
func (s *Store) ErasePartition(id PartitionID) error {
	if id.named {
		return errcode.Wrap(errcode.InvalidPartitionID, "nvs.erase_partition", nil)
	}
	if s.initialized {
		return errcode.Wrap(errcode.AlreadyInitialized, "nvs.erase_partition", nil)
	}
	switch st := s.drv.FlashErase(); st {
	case driver.StatusOK:
		s.log.Debugw("nvs partition erased")
		return nil
	case driver.StatusNVSNotFound:
		return errcode.Wrap(errcode.PartitionNotFound, "nvs.erase_partition", st)
	default:
		return errcode.Wrap(errcode.Driver, "nvs.erase_partition", st)
	}
}

// DeinitPartition unmounts a partition handle.
func (s *Store) DeinitPartition(p *Partition) {
	if p != nil && p.store == s {
		s.initialized = false
		p.store = nil
	}
}

// RecoverPartition mounts a partition, erasing and remounting it once if the
// first mount reports corruption.
func (s *Store) RecoverPartition(id PartitionID) (*Partition, error) {
	p, err := s.InitPartition(id)
	if !errors.Is(err, errcode.PartitionCorrupted) {
		return p, err
	}
	s.log.Infow("nvs partition corrupted, erasing")
	if err := s.ErasePartition(id); err != nil {
		return nil, err
	}
	return s.InitPartition(id)
}
