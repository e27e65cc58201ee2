package cache

import (
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/chazu/petlik/pkg/bytecode"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "cache.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleProgram() *bytecode.Program {
	p := bytecode.NewProgram()
	p.Optimized = true
	p.Emit(bytecode.Inc('a'))
	p.Emit(bytecode.Add('b', 'a'))
	p.Emit(bytecode.Clr('a'))
	p.Emit(bytecode.Prt('b'))
	p.Emit(bytecode.Hlt())
	return p
}

func TestKey(t *testing.T) {
	g := NewWithT(t)

	k := Key([]byte("a a (a b)"), true)
	g.Expect(k).To(HaveLen(64))
	g.Expect(k).To(Equal(Key([]byte("a a (a b)"), true)))
	g.Expect(k).NotTo(Equal(Key([]byte("a a (a b)"), false)))
	g.Expect(k).NotTo(Equal(Key([]byte("a a (a c)"), true)))
}

func TestLookupMiss(t *testing.T) {
	g := NewWithT(t)
	s := openTemp(t)

	prog, ok, err := s.Lookup(Key([]byte("a"), true))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeFalse())
	g.Expect(prog).To(BeNil())
}

func TestStoreAndLookup(t *testing.T) {
	g := NewWithT(t)
	s := openTemp(t)
	key := Key([]byte("a(ab)=b"), true)
	want := sampleProgram()

	g.Expect(s.Store(key, want)).To(Succeed())

	got, ok, err := s.Lookup(key)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeTrue())
	g.Expect(got.Code).To(Equal(want.Code))
	g.Expect(got.Optimized).To(BeTrue())

	n, err := s.Count()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(n).To(Equal(1))
}

func TestStoreReplaces(t *testing.T) {
	g := NewWithT(t)
	s := openTemp(t)
	key := Key([]byte("x"), false)

	g.Expect(s.Store(key, sampleProgram())).To(Succeed())

	second := bytecode.NewProgram()
	second.Emit(bytecode.Hlt())
	g.Expect(s.Store(key, second)).To(Succeed())

	got, ok, err := s.Lookup(key)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeTrue())
	g.Expect(got.Code).To(Equal([]bytecode.Instruction{bytecode.Hlt()}))

	n, err := s.Count()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(n).To(Equal(1))
}

func TestStoreRejectsInvalidProgram(t *testing.T) {
	g := NewWithT(t)
	s := openTemp(t)

	p := bytecode.NewProgram()
	p.Emit(bytecode.Inc('a'))

	g.Expect(s.Store("k", p)).To(MatchError(bytecode.ErrMissingHalt))
}

func TestCorruptEntryIsMiss(t *testing.T) {
	g := NewWithT(t)
	s := openTemp(t)
	key := Key([]byte("a"), true)

	_, err := s.db.Exec(
		"INSERT INTO programs (key, image, created) VALUES (?, ?, ?)",
		key, []byte("not an image"), time.Now().Unix(),
	)
	g.Expect(err).NotTo(HaveOccurred())

	prog, ok, err := s.Lookup(key)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeFalse())
	g.Expect(prog).To(BeNil())

	n, err := s.Count()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(n).To(BeZero())
}

func TestReopenKeepsEntries(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "cache.db")
	key := Key([]byte("=a"), true)

	s, err := Open(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(s.Store(key, sampleProgram())).To(Succeed())
	g.Expect(s.Close()).To(Succeed())

	s, err = Open(path)
	g.Expect(err).NotTo(HaveOccurred())
	defer s.Close()
	g.Expect(s.Path()).To(Equal(path))

	_, ok, err := s.Lookup(key)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ok).To(BeTrue())
}

func TestPrune(t *testing.T) {
	g := NewWithT(t)
	s := openTemp(t)

	_, err := s.db.Exec(
		"INSERT INTO programs (key, image, created) VALUES (?, ?, ?)",
		"old", []byte("stale"), time.Now().Add(-48*time.Hour).Unix(),
	)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(s.Store("new", sampleProgram())).To(Succeed())

	removed, err := s.Prune(time.Now().Add(-24 * time.Hour))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(removed).To(Equal(int64(1)))

	n, err := s.Count()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(n).To(Equal(1))
}
