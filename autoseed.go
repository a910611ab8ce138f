package sparkyrng

import (
	"bytes"
	crand "crypto/rand"
	"encoding/binary"
	"os"
	"reflect"
	"runtime"
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"
)

// Best-effort ambient seeding for callers that supply no seed. Nothing
// here carries a reproducibility contract.
//
// Based on ideas from
// https://www.pcg-random.org/posts/simple-portable-cpp-seed-entropy.html

// crush32 folds a 64-bit value to 32 bits with a fixed multilinear mix.
func crush32(v uint64) uint32 {
	r := uint64(0x80e25f91f5ba47ea)
	r += 0x6db4dd6c7a89963c * uint64(uint32(v))
	r += 0xd35f3cdd31f49ad8 * (v >> 32)
	r += 0xc3275ada1d5eff71
	return uint32(r >> 32)
}

// An entropyPool is the process-wide counter behind AutoSeedSeq: one
// word of system entropy read once, then advanced by a large odd
// increment per use. Concurrent callers may observe duplicate or
// skipped values; the other auto-seed sources disambiguate.
type entropyPool struct {
	once sync.Once
	base uint32
	ctr  uint32
}

func (p *entropyPool) next() uint32 {
	p.once.Do(func() {
		var b [4]byte
		if _, err := crand.Read(b[:]); err == nil {
			p.base = binary.LittleEndian.Uint32(b[:])
		}
	})
	return p.base + atomic.AddUint32(&p.ctr, 0xedf19156)
}

var autoPool entropyPool

// buildStamp distinguishes builds the way a compile-time timestamp
// would: an FNV-1 hash over the module build info.
var buildStamp = func() uint32 {
	h := uint32(2166136261)
	fnv := func(s string) {
		for i := 0; i < len(s); i++ {
			h = h*16777619 ^ uint32(s[i])
		}
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fnv(bi.GoVersion)
		fnv(bi.Main.Path)
		fnv(bi.Main.Version)
		for _, s := range bi.Settings {
			fnv(s.Key)
			fnv(s.Value)
		}
	}
	return h
}()

var processStart = time.Now()

// goroutineID parses the header of a runtime.Stack dump. Slow, but this
// runs once per auto-seed, off any hot path.
func goroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i > 0 {
		if id, err := strconv.ParseUint(string(b[:i]), 10, 64); err == nil {
			return id
		}
	}
	return 0
}

// AutoSeedSeq gathers ambient process entropy into a SeedSeq: a build
// stamp, the shared counter, heap and stack addresses, the wall clock,
// two function addresses, the calling goroutine, the pid, and a
// monotonic-clock reading standing in for a cycle counter.
func AutoSeedSeq() *SeedSeq {
	heap := new(int)
	words := []uint32{
		buildStamp,
		autoPool.next(),
		crush32(uint64(uintptr(unsafe.Pointer(heap)))),
		crush32(uint64(uintptr(unsafe.Pointer(&heap)))),
		crush32(uint64(time.Now().UnixNano())),
		crush32(uint64(reflect.ValueOf(time.Now).Pointer())),
		crush32(uint64(reflect.ValueOf(os.Exit).Pointer())),
		crush32(uint64(reflect.ValueOf(AutoSeedSeq).Pointer())),
		crush32(goroutineID()),
		crush32(uint64(os.Getpid())),
		crush32(uint64(time.Since(processStart))),
	}
	return NewSeedSeq(words)
}
