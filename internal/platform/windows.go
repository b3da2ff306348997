//go:build windows

package platform

import (
	"context"
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/logandonley/fontenum/pkg/fe"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	gdi32  = windows.NewLazySystemDLL("gdi32.dll")
	dwrite = windows.NewLazySystemDLL("dwrite.dll")

	procGetDC               = user32.NewProc("GetDC")
	procReleaseDC           = user32.NewProc("ReleaseDC")
	procEnumFontFamiliesExW = gdi32.NewProc("EnumFontFamiliesExW")
	procDWriteCreateFactory = dwrite.NewProc("DWriteCreateFactory")
)

func newServices(opts Options) Services {
	return Services{
		Legacy:     gdiLegacy{},
		Collection: dwriteCollectionService{},
		FontSet:    &fontscanSet{cacheDir: opts.CacheDir, log: opts.Log},
	}
}

// GDI

const (
	gdiDefaultCharSet = 1
	gdiFixedPitch     = 1
)

type logFont struct {
	Height         int32
	Width          int32
	Escapement     int32
	Orientation    int32
	Weight         int32
	Italic         byte
	Underline      byte
	StrikeOut      byte
	CharSet        byte
	OutPrecision   byte
	ClipPrecision  byte
	Quality        byte
	PitchAndFamily byte
	FaceName       [32]uint16
}

type enumLogFontEx struct {
	LogFont  logFont
	FullName [64]uint16
	Style    [32]uint16
	Script   [32]uint16
}

// EnumFontFamiliesExW calls back into a single process-wide callback;
// callbacks are a limited resource, so the visitor is swapped under gdiMu.
var (
	gdiMu       sync.Mutex
	gdiVisit    func(fe.LegacyFace) bool
	gdiCallback = windows.NewCallback(func(elf *enumLogFontEx, metrics, fontType, lparam uintptr) uintptr {
		if gdiVisit == nil || elf == nil {
			return 0
		}
		lf := &elf.LogFont
		face := fe.LegacyFace{
			Family:     windows.UTF16ToString(lf.FaceName[:]),
			Style:      windows.UTF16ToString(elf.Style[:]),
			Weight:     int(lf.Weight),
			Italic:     lf.Italic != 0,
			FixedPitch: lf.PitchAndFamily&gdiFixedPitch != 0,
			CharSet:    int(lf.CharSet),
		}
		if gdiVisit(face) {
			return 1
		}
		return 0
	})
)

type gdiLegacy struct{}

func (gdiLegacy) EnumFaces(ctx context.Context, visit func(fe.LegacyFace) bool) error {
	if err := procEnumFontFamiliesExW.Find(); err != nil {
		return fmt.Errorf("loading EnumFontFamiliesExW: %w", err)
	}

	gdiMu.Lock()
	defer gdiMu.Unlock()

	hdc, _, _ := procGetDC.Call(0)
	if hdc == 0 {
		return fmt.Errorf("acquiring device context")
	}
	defer procReleaseDC.Call(0, hdc)

	gdiVisit = func(face fe.LegacyFace) bool {
		return ctx.Err() == nil && visit(face)
	}
	defer func() { gdiVisit = nil }()

	lf := logFont{CharSet: gdiDefaultCharSet}
	procEnumFontFamiliesExW.Call(hdc, uintptr(unsafe.Pointer(&lf)), gdiCallback, 0, 0)
	return nil
}

// DirectWrite

var (
	iidIDWriteFactory = windows.GUID{Data1: 0xb859ee5a, Data2: 0xd838, Data3: 0x4b5b, Data4: [8]byte{0xa2, 0xe8, 0x1a, 0xdc, 0x7d, 0x93, 0xdb, 0x48}}
	iidIDWriteFont1   = windows.GUID{Data1: 0xacd16696, Data2: 0x8c14, Data3: 0x4f5d, Data4: [8]byte{0x87, 0x7e, 0xfe, 0x3f, 0xc1, 0xd3, 0x27, 0x38}}
)

// vtable slots
const (
	slotQueryInterface = 0
	slotRelease        = 2

	slotGetSystemFontCollection = 3 // IDWriteFactory

	slotGetFontFamilyCount = 3 // IDWriteFontCollection
	slotGetFontFamily      = 4

	slotGetFontCount   = 4 // IDWriteFontList
	slotGetFont        = 5
	slotGetFamilyNames = 6 // IDWriteFontFamily

	slotGetWeight        = 4 // IDWriteFont
	slotGetStyle         = 6
	slotGetFaceNames     = 8
	slotIsMonospacedFont = 17 // IDWriteFont1

	slotGetCount            = 3 // IDWriteLocalizedStrings
	slotGetLocaleNameLength = 5
	slotGetLocaleName       = 6
	slotGetStringLength     = 7
	slotGetString           = 8
)

const (
	dwriteFactoryTypeShared = 0
	dwriteStyleOblique      = 1
	dwriteStyleItalic       = 2
)

// comPtr is a COM interface pointer. The object is owned by COM and kept
// alive by its reference count, not by the Go heap.
type comPtr struct {
	ptr unsafe.Pointer
}

// out returns the address COM writes a new interface pointer to
func (p *comPtr) out() uintptr {
	return uintptr(unsafe.Pointer(&p.ptr))
}

func (p comPtr) call(slot int, args ...uintptr) uintptr {
	vtbl := *(*unsafe.Pointer)(p.ptr)
	fn := *(*uintptr)(unsafe.Add(vtbl, uintptr(slot)*unsafe.Sizeof(uintptr(0))))
	r, _, _ := syscall.SyscallN(fn, append([]uintptr{uintptr(p.ptr)}, args...)...)
	return r
}

func (p comPtr) release() {
	if p.ptr != nil {
		p.call(slotRelease)
	}
}

func (p comPtr) queryInterface(iid *windows.GUID) (comPtr, bool) {
	var iface comPtr
	hr := p.call(slotQueryInterface, uintptr(unsafe.Pointer(iid)), iface.out())
	return iface, failed(hr) == nil && iface.ptr != nil
}

func failed(hr uintptr) error {
	if int32(hr) < 0 {
		return fmt.Errorf("HRESULT 0x%08x", uint32(hr))
	}
	return nil
}

type dwriteCollectionService struct{}

func (dwriteCollectionService) OpenCollection(ctx context.Context) (fe.FontCollection, error) {
	if err := procDWriteCreateFactory.Find(); err != nil {
		return nil, fmt.Errorf("loading DWriteCreateFactory: %w", err)
	}

	var factory comPtr
	hr, _, _ := procDWriteCreateFactory.Call(dwriteFactoryTypeShared,
		uintptr(unsafe.Pointer(&iidIDWriteFactory)), factory.out())
	if err := failed(hr); err != nil {
		return nil, fmt.Errorf("creating DirectWrite factory: %w", err)
	}

	var collection comPtr
	if err := failed(factory.call(slotGetSystemFontCollection, collection.out(), 0)); err != nil {
		factory.release()
		return nil, fmt.Errorf("getting system font collection: %w", err)
	}
	return &dwriteCollection{factory: factory, collection: collection}, nil
}

// dwriteCollection releases every family it handed out on Close
type dwriteCollection struct {
	factory    comPtr
	collection comPtr
	families   []comPtr
}

func (c *dwriteCollection) FamilyCount() int {
	return int(uint32(c.collection.call(slotGetFontFamilyCount)))
}

func (c *dwriteCollection) Family(i int) (fe.FontFamily, error) {
	var family comPtr
	if err := failed(c.collection.call(slotGetFontFamily, uintptr(i), family.out())); err != nil {
		return nil, fmt.Errorf("getting font family %d: %w", i, err)
	}
	c.families = append(c.families, family)
	return &dwriteFamily{ptr: family}, nil
}

func (c *dwriteCollection) Close() error {
	for _, family := range c.families {
		family.release()
	}
	c.families = nil
	c.collection.release()
	c.factory.release()
	return nil
}

type dwriteFamily struct {
	ptr comPtr
}

func (f *dwriteFamily) FamilyNames() (fe.LocalizedStrings, error) {
	var names comPtr
	if err := failed(f.ptr.call(slotGetFamilyNames, names.out())); err != nil {
		return nil, fmt.Errorf("getting family names: %w", err)
	}
	defer names.release()
	return readLocalizedStrings(names)
}

func (f *dwriteFamily) FaceCount() int {
	return int(uint32(f.ptr.call(slotGetFontCount)))
}

// Face reads everything the adapter needs up front and releases the font
func (f *dwriteFamily) Face(i int) (fe.FontFace, error) {
	var font comPtr
	if err := failed(f.ptr.call(slotGetFont, uintptr(i), font.out())); err != nil {
		return nil, fmt.Errorf("getting font %d: %w", i, err)
	}
	defer font.release()

	face := &dwriteFace{weight: int(uint32(font.call(slotGetWeight)))}
	switch uint32(font.call(slotGetStyle)) {
	case dwriteStyleOblique:
		face.style = fe.StyleOblique
	case dwriteStyleItalic:
		face.style = fe.StyleItalic
	}

	var names comPtr
	if err := failed(font.call(slotGetFaceNames, names.out())); err != nil {
		face.namesErr = fmt.Errorf("getting face names: %w", err)
	} else {
		face.names, face.namesErr = readLocalizedStrings(names)
		names.release()
	}

	if font1, ok := font.queryInterface(&iidIDWriteFont1); ok {
		defer font1.release()
		return &dwriteFace1{dwriteFace: *face, monospaced: font1.call(slotIsMonospacedFont) != 0}, nil
	}
	return face, nil
}

type dwriteFace struct {
	names    fe.LocalizedNames
	namesErr error
	weight   int
	style    fe.FaceStyle
}

func (f *dwriteFace) FaceNames() (fe.LocalizedStrings, error) { return f.names, f.namesErr }
func (f *dwriteFace) Weight() int                             { return f.weight }
func (f *dwriteFace) Style() fe.FaceStyle                     { return f.style }

// dwriteFace1 is a face whose font supports IDWriteFont1
type dwriteFace1 struct {
	dwriteFace
	monospaced bool
}

func (f *dwriteFace1) IsMonospaced() bool { return f.monospaced }

func readLocalizedStrings(p comPtr) (fe.LocalizedNames, error) {
	count := int(uint32(p.call(slotGetCount)))
	names := make(fe.LocalizedNames, 0, count)
	for i := 0; i < count; i++ {
		locale, err := readIndexedString(p, i, slotGetLocaleNameLength, slotGetLocaleName)
		if err != nil {
			return nil, fmt.Errorf("reading locale name %d: %w", i, err)
		}
		text, err := readIndexedString(p, i, slotGetStringLength, slotGetString)
		if err != nil {
			return nil, fmt.Errorf("reading string %d: %w", i, err)
		}
		names = append(names, fe.LocalizedName{Locale: locale, Text: text})
	}
	return names, nil
}

func readIndexedString(p comPtr, i, lengthSlot, stringSlot int) (string, error) {
	var length uint32
	if err := failed(p.call(lengthSlot, uintptr(i), uintptr(unsafe.Pointer(&length)))); err != nil {
		return "", err
	}
	buf := make([]uint16, length+1)
	if err := failed(p.call(stringSlot, uintptr(i), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))); err != nil {
		return "", err
	}
	return windows.UTF16ToString(buf), nil
}
