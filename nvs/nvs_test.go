package nvs

import (
	"errors"
	"strings"
	"testing"

	"github.com/edaniels/golog"

	"esphal-go/driver"
	"esphal-go/driver/fake"
	"esphal-go/errcode"
	"esphal-go/peripherals"
)

func newStore(t *testing.T) (*Store, *fake.Storage) {
	t.Helper()
	p, ok := peripherals.NewRegistry().Take()
	if !ok {
		t.Fatal("registry take failed")
	}
	drv := fake.NewStorage()
	s, err := NewStore(p.NVS, drv, golog.NewTestLogger(t))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s, drv
}

func TestStoreConsumesToken(t *testing.T) {
	p, _ := peripherals.NewRegistry().Take()
	if _, err := NewStore(p.NVS, fake.NewStorage(), nil); err != nil {
		t.Fatalf("first store: %v", err)
	}
	if _, err := NewStore(p.NVS, fake.NewStorage(), nil); !errors.Is(err, errcode.PeripheralConsumed) {
		t.Fatalf("second store: got %v, want peripheral_consumed", err)
	}
}

func TestInitDeinitCycle(t *testing.T) {
	s, drv := newStore(t)

	part, err := s.InitPartition(DefaultPartition())
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if drv.Inits != 1 {
		t.Fatalf("driver inits %d", drv.Inits)
	}
	if _, err := s.InitPartition(DefaultPartition()); !errors.Is(err, errcode.AlreadyInitialized) {
		t.Fatalf("double init: got %v, want already_initialized", err)
	}

	s.DeinitPartition(part)
	if _, err := s.InitPartition(DefaultPartition()); err != nil {
		t.Fatalf("re-init after deinit: %v", err)
	}
}

func TestEraseRequiresUnmounted(t *testing.T) {
	s, drv := newStore(t)

	part, err := s.InitPartition(DefaultPartition())
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := s.ErasePartition(DefaultPartition()); !errors.Is(err, errcode.AlreadyInitialized) {
		t.Fatalf("erase while mounted: got %v, want already_initialized", err)
	}
	s.DeinitPartition(part)
	if err := s.ErasePartition(DefaultPartition()); err != nil {
		t.Fatalf("erase: %v", err)
	}
	if drv.Erases != 1 {
		t.Fatalf("driver erases %d", drv.Erases)
	}
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		status driver.Status
		want   errcode.Code
	}{
		{"no free pages", driver.StatusNVSNoFreePages, errcode.PartitionCorrupted},
		{"new layout version", driver.StatusNVSNewVersionFound, errcode.PartitionCorrupted},
		{"partition missing", driver.StatusNVSNotFound, errcode.PartitionNotFound},
		{"opaque failure", driver.StatusFail, errcode.Driver},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, drv := newStore(t)
			drv.InitStatuses = append(drv.InitStatuses, tc.status)
			if _, err := s.InitPartition(DefaultPartition()); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %s", err, tc.want)
			}
		})
	}
}

func TestNamedPartitions(t *testing.T) {
	if _, err := NamedPartition(strings.Repeat("n", 17)); !errors.Is(err, errcode.InvalidPartitionID) {
		t.Fatalf("17 byte name: got %v, want invalid_partition_id", err)
	}
	id, err := NamedPartition("telemetry")
	if err != nil {
		t.Fatalf("valid name: %v", err)
	}
	// Named partitions are reserved; the driver surface only mounts the
	// default one.
	s, _ := newStore(t)
	if _, err := s.InitPartition(id); !errors.Is(err, errcode.InvalidPartitionID) {
		t.Fatalf("named init: got %v, want invalid_partition_id", err)
	}
}

func TestRecoverPartition(t *testing.T) {
	s, drv := newStore(t)
	drv.InitStatuses = append(drv.InitStatuses, driver.StatusNVSNoFreePages)

	if _, err := s.RecoverPartition(DefaultPartition()); err != nil {
		t.Fatalf("recover: %v", err)
	}
	if drv.Inits != 2 || drv.Erases != 1 {
		t.Fatalf("driver calls: inits %d erases %d", drv.Inits, drv.Erases)
	}
}
