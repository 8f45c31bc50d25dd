package hits

// Geometry is the narrow view of the detector geometry the pipeline needs.
type Geometry interface {
	// GlobalWire maps a module-local wire onto a globally unique wire index.
	// It must be deterministic and total over every WireID it is given.
	GlobalWire(w WireID) int

	// ReadoutWindowSize returns the number of ticks in one readout window.
	ReadoutWindowSize() int
}

// DefaultTPCOffsets maps a TPC number onto the number of whole planes of
// wires that precede it on the global wire axis. TPC pairs sharing a
// cathode share an offset.
var DefaultTPCOffsets = map[int]int{
	0: 0, 1: 0,
	2: 1, 3: 1, 4: 1, 5: 1,
	6: 2, 7: 2,
}

// TPCLayout is a Geometry for detectors whose TPCs are laid out side by side
// along the wire axis with identical planes.
type TPCLayout struct {
	WiresPerPlane int         // wires in one plane of one TPC
	Readout       int         // readout window size in ticks
	Offsets       map[int]int // TPC -> plane offset; nil means DefaultTPCOffsets
}

// NewTPCLayout returns a layout using DefaultTPCOffsets.
func NewTPCLayout(wiresPerPlane, readoutWindow int) *TPCLayout {
	return &TPCLayout{
		WiresPerPlane: wiresPerPlane,
		Readout:       readoutWindow,
	}
}

// GlobalWire implements Geometry. TPCs missing from the offset table are
// logged on the ops stream and keep their local wire number.
func (l *TPCLayout) GlobalWire(w WireID) int {
	offsets := l.Offsets
	if offsets == nil {
		offsets = DefaultTPCOffsets
	}
	off, ok := offsets[w.TPC]
	if !ok {
		opsf("no global wire offset for TPC %d (wire %s), using local wire", w.TPC, w)
		return w.Wire
	}
	return off*l.WiresPerPlane + w.Wire
}

// ReadoutWindowSize implements Geometry.
func (l *TPCLayout) ReadoutWindowSize() int {
	return l.Readout
}

// Verify at compile time that *TPCLayout implements Geometry.
var _ Geometry = (*TPCLayout)(nil)
