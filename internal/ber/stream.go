package ber

import (
	"fmt"
	"io"
	"math"
)

// DecodeState is the position of a StreamDecoder within the current TLV.
type DecodeState uint8

// Stream decoder states.
const (
	// StateReadingTag accumulates an application tag or a type tag.
	StateReadingTag DecodeState = iota
	// StateReadingLength accumulates an outer or inner length.
	StateReadingLength
	// StateReadingValue accumulates the value bytes of a primitive.
	StateReadingValue
	// StateReadingTerminator checks for an end-of-contents marker.
	StateReadingTerminator
	// StateFailed is entered after a fatal error; Reset leaves it.
	StateFailed
)

// String returns the name of the state.
func (s DecodeState) String() string {
	switch s {
	case StateReadingTag:
		return "reading-tag"
	case StateReadingLength:
		return "reading-length"
	case StateReadingValue:
		return "reading-value"
	case StateReadingTerminator:
		return "reading-terminator"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Limits bounds the resources a decoder may commit to a single input.
// Zero fields mean no limit.
type Limits struct {
	MaxDepth       int
	MaxValueLength int
}

// initialValueCap caps the buffer reserved for a primitive value before its
// bytes arrive.
const initialValueCap = 4096

// DefaultLimits are used by decoders created without explicit limits.
var DefaultLimits = Limits{
	MaxDepth:       64,
	MaxValueLength: 16 << 20,
}

// AsyncContainer is the bookkeeping record of a container that is open on
// the input stream. Pointers handed to a StreamHandler are only valid for
// the duration of the call.
type AsyncContainer struct {
	Tag         Tag    // application tag
	Type        Tag    // type tag
	OuterLength Length // length following the application tag
	Length      Length // length of the container's contents
	BytesRead   int    // content bytes consumed so far, children and terminators included
	Offset      int    // stream offset of the application tag

	contentStart int
	end          int // absolute offset the contents must not pass, -1 if unbounded
	outerEnd     int // absolute offset the outer terminator must not pass
	closing      bool
}

// Size returns the framed size of the container once it is complete.
func (c *AsyncContainer) Size(streamOffset int) int {
	return streamOffset - c.Offset
}

// AsyncItem is a completed primitive leaf.
type AsyncItem struct {
	Tag    Tag    // application tag
	Type   Tag    // type tag
	Value  []byte // value bytes, owned by the receiver
	Offset int    // stream offset of the application tag
	Size   int    // framed size, headers and terminators included
}

// StreamHandler receives the events of a StreamDecoder in wire order. A
// child's event always precedes the ContainerReady of its parent. Returning
// an error aborts the decode as a fatal error.
type StreamHandler interface {
	// ContainerBegin is called once a container's headers are complete.
	ContainerBegin(c *AsyncContainer) error
	// ItemReady is called when a primitive leaf is complete.
	ItemReady(item *AsyncItem) error
	// ContainerReady is called when a container and all its children are complete.
	ContainerReady(c *AsyncContainer) error
}

// HandlerFuncs adapts optional functions to a StreamHandler.
type HandlerFuncs struct {
	OnContainerBegin func(c *AsyncContainer) error
	OnItem           func(item *AsyncItem) error
	OnContainer      func(c *AsyncContainer) error
}

// ContainerBegin implements StreamHandler.
func (h HandlerFuncs) ContainerBegin(c *AsyncContainer) error {
	if h.OnContainerBegin == nil {
		return nil
	}
	return h.OnContainerBegin(c)
}

// ItemReady implements StreamHandler.
func (h HandlerFuncs) ItemReady(item *AsyncItem) error {
	if h.OnItem == nil {
		return nil
	}
	return h.OnItem(item)
}

// ContainerReady implements StreamHandler.
func (h HandlerFuncs) ContainerReady(c *AsyncContainer) error {
	if h.OnContainer == nil {
		return nil
	}
	return h.OnContainer(c)
}

// headerStage tracks which field of the double-wrapped header is pending.
type headerStage uint8

const (
	stageAppTag headerStage = iota
	stageOuterLength
	stageTypeTag
	stageInnerLength
	stageValue
)

// terminatorKind says why the decoder is in StateReadingTerminator.
type terminatorKind uint8

const (
	termNone terminatorKind = iota
	// termOptional: a 0x00 was read where a child's tag may start inside an
	// indefinite container; the next byte decides.
	termOptional
	// termLeaf: a leaf with an indefinite outer length needs its marker.
	termLeaf
	// termContainer: a container with an indefinite outer length needs its marker.
	termContainer
)

// pendingItem holds the header of the TLV currently being read.
type pendingItem struct {
	stage       headerStage
	start       int
	appTag      Tag
	outerLength Length
	end         int // start of next sibling when outerLength is definite, else -1
	typeTag     Tag
	constructed bool
	innerLength Length
	value       []byte
}

// StreamDecoder decodes BER input that arrives in arbitrary fragments. Each
// Write processes every byte it is given and returns; bytes that do not
// complete a field are kept as progress for the next Write. A decoder that
// runs out of input simply waits. After a fatal error every Write fails
// until Reset is called.
//
// A StreamDecoder is not safe for concurrent use.
type StreamDecoder struct {
	handler StreamHandler
	limits  Limits

	state      DecodeState
	terminator terminatorKind
	eocRead    int
	offset     int
	err        error

	tag    tagAccumulator
	length lengthAccumulator
	item   pendingItem
	stack  []AsyncContainer

	items      int
	containers int
}

// NewStreamDecoder creates a decoder reporting to h with DefaultLimits.
func NewStreamDecoder(h StreamHandler) *StreamDecoder {
	return NewStreamDecoderWithLimits(h, DefaultLimits)
}

// NewStreamDecoderWithLimits creates a decoder reporting to h.
func NewStreamDecoderWithLimits(h StreamHandler, limits Limits) *StreamDecoder {
	if h == nil {
		h = HandlerFuncs{}
	}
	d := &StreamDecoder{
		handler: h,
		limits:  limits,
		stack:   make([]AsyncContainer, 0, 8),
	}
	d.Reset()
	return d
}

// Reset discards all progress, including a reported failure, and returns
// the decoder to its initial state.
func (d *StreamDecoder) Reset() {
	d.state = StateReadingTag
	d.terminator = termNone
	d.eocRead = 0
	d.offset = 0
	d.err = nil
	d.tag.reset()
	d.length.reset()
	d.resetItem()
	d.stack = d.stack[:0]
}

func (d *StreamDecoder) resetItem() {
	d.item = pendingItem{end: -1}
}

// State returns the current state.
func (d *StreamDecoder) State() DecodeState { return d.state }

// Depth returns the number of open containers.
func (d *StreamDecoder) Depth() int { return len(d.stack) }

// Offset returns the number of bytes consumed since the last Reset.
func (d *StreamDecoder) Offset() int { return d.offset }

// Err returns the fatal error reported since the last Reset, if any.
func (d *StreamDecoder) Err() error { return d.err }

// Stats returns the number of leaves and containers completed since the
// decoder was created.
func (d *StreamDecoder) Stats() (items, containers int) { return d.items, d.containers }

// Idle reports whether the decoder sits between top-level items with no
// partial input buffered.
func (d *StreamDecoder) Idle() bool {
	return d.state == StateReadingTag &&
		len(d.stack) == 0 &&
		d.item.stage == stageAppTag &&
		!d.tag.started
}

// Write feeds p to the decoder. It implements io.Writer so that input can
// be copied straight from a connection. On a fatal error it returns the
// number of bytes consumed up to and including the offending byte.
func (d *StreamDecoder) Write(p []byte) (int, error) {
	if d.state == StateFailed {
		return 0, d.failure()
	}
	i := 0
	for i < len(p) {
		if d.state == StateReadingValue {
			need := int(d.item.innerLength) - len(d.item.value)
			n := min(need, len(p)-i)
			d.item.value = append(d.item.value, p[i:i+n]...)
			d.offset += n
			i += n
			if n == need {
				if err := d.leafDone(); err != nil {
					d.fail(err)
					return i, d.failure()
				}
			}
			continue
		}
		if err := d.step(p[i]); err != nil {
			d.fail(err)
			return i + 1, d.failure()
		}
		i++
	}
	return len(p), nil
}

// WriteByte feeds a single byte.
func (d *StreamDecoder) WriteByte(b byte) error {
	_, err := d.Write([]byte{b})
	return err
}

// ReadFrom feeds everything r yields until io.EOF. It implements io.ReaderFrom.
// Reaching the end of r in the middle of a value is not an error.
func (d *StreamDecoder) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, 4096)
	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			k, werr := d.Write(buf[:n])
			total += int64(k)
			if werr != nil {
				return total, werr
			}
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Consume feeds the contents of b and removes the bytes that were processed.
func (d *StreamDecoder) Consume(b *Buffer) error {
	var processed int
	var err error
	for chunk := range b.Chunks() {
		var n int
		n, err = d.Write(chunk)
		processed += n
		if err != nil {
			break
		}
	}
	b.Consume(processed)
	return err
}

func (d *StreamDecoder) fail(err error) {
	d.state = StateFailed
	if _, ok := err.(*DecodeError); ok {
		d.err = err
		return
	}
	d.err = NewDecodeError(d.offset-1, "stream decode failed", err)
}

func (d *StreamDecoder) failure() error {
	return fmt.Errorf("%w: %w", ErrDecoderFailed, d.err)
}

// step processes a single byte outside of a value.
func (d *StreamDecoder) step(b byte) error {
	pos := d.offset
	d.offset++
	if bound := d.bound(); bound >= 0 && pos >= bound {
		return ErrBudgetExceeded
	}
	switch d.state {
	case StateReadingTag:
		return d.readTag(pos, b)
	case StateReadingLength:
		return d.readLength(b)
	case StateReadingTerminator:
		return d.readTerminator(b)
	}
	return nil
}

// bound returns the absolute offset the next byte must stay below, or -1.
func (d *StreamDecoder) bound() int {
	if d.item.stage > stageOuterLength && d.item.end >= 0 {
		return d.item.end
	}
	if len(d.stack) == 0 {
		return -1
	}
	top := &d.stack[len(d.stack)-1]
	if top.closing {
		return top.outerEnd
	}
	return top.end
}

// containerBound returns the bound imposed by the innermost open container.
func (d *StreamDecoder) containerBound() int {
	if len(d.stack) == 0 {
		return -1
	}
	return d.stack[len(d.stack)-1].end
}

// inIndefinite reports whether the innermost open container is still
// reading indefinite length contents.
func (d *StreamDecoder) inIndefinite() bool {
	if len(d.stack) == 0 {
		return false
	}
	top := &d.stack[len(d.stack)-1]
	return top.Length.IsIndefinite() && !top.closing
}

func (d *StreamDecoder) readTag(pos int, b byte) error {
	if d.item.stage == stageAppTag && !d.tag.started {
		d.item.start = pos
		if b == 0x00 && d.inIndefinite() {
			d.terminator = termOptional
			d.state = StateReadingTerminator
			return nil
		}
	}

	done, err := d.tag.push(b)
	if err != nil {
		return err
	}
	if !done {
		return nil
	}

	if d.item.stage == stageAppTag {
		d.item.appTag = d.tag.tag
		d.item.stage = stageOuterLength
	} else {
		d.item.typeTag = d.tag.tag
		d.item.constructed = d.tag.constructed
		d.item.stage = stageInnerLength
	}
	d.tag.reset()
	d.state = StateReadingLength
	return nil
}

func (d *StreamDecoder) readLength(b byte) error {
	done, err := d.length.push(b)
	if err != nil {
		return err
	}
	if !done {
		return nil
	}
	l := d.length.length
	d.length.reset()

	if d.item.stage == stageOuterLength {
		return d.outerLengthRead(l)
	}
	return d.innerLengthRead(l)
}

func (d *StreamDecoder) outerLengthRead(l Length) error {
	d.item.outerLength = l
	d.item.end = -1
	if !l.IsIndefinite() {
		if int(l) > math.MaxInt-d.offset {
			return ErrLengthOverflow
		}
		d.item.end = d.offset + int(l)
		if bound := d.containerBound(); bound >= 0 && d.item.end > bound {
			return ErrBudgetExceeded
		}
		if l == 0 {
			// An empty outer value carries no item.
			size := d.offset - d.item.start
			d.resetItem()
			d.state = StateReadingTag
			return d.childDone(size)
		}
	}
	d.item.stage = stageTypeTag
	d.state = StateReadingTag
	return nil
}

func (d *StreamDecoder) innerLengthRead(l Length) error {
	it := &d.item
	it.innerLength = l
	contentStart := d.offset

	if !l.IsIndefinite() {
		if int(l) > math.MaxInt-contentStart {
			return ErrLengthOverflow
		}
		if !it.outerLength.IsIndefinite() && contentStart+int(l) != it.end {
			return ErrLengthMismatch
		}
		if bound := d.bound(); bound >= 0 && contentStart+int(l) > bound {
			return ErrBudgetExceeded
		}
	}

	if it.constructed {
		return d.pushContainer(contentStart)
	}

	if l.IsIndefinite() {
		return ErrIndefinitePrimitive
	}
	if d.limits.MaxValueLength > 0 && int(l) > d.limits.MaxValueLength {
		return ErrValueTooLarge
	}
	it.stage = stageValue
	if l == 0 {
		it.value = []byte{}
		return d.leafDone()
	}
	// grows as bytes arrive; the declared length is not trusted up front
	it.value = make([]byte, 0, min(int(l), initialValueCap))
	d.state = StateReadingValue
	return nil
}

func (d *StreamDecoder) pushContainer(contentStart int) error {
	if d.limits.MaxDepth > 0 && len(d.stack) >= d.limits.MaxDepth {
		return ErrMaxDepth
	}
	it := d.item
	c := AsyncContainer{
		Tag:          it.appTag,
		Type:         it.typeTag,
		OuterLength:  it.outerLength,
		Length:       it.innerLength,
		Offset:       it.start,
		contentStart: contentStart,
	}
	if it.outerLength.IsIndefinite() {
		c.outerEnd = d.containerBound()
	} else {
		c.outerEnd = it.end
	}
	if it.innerLength.IsIndefinite() {
		c.end = c.outerEnd
	} else {
		c.end = contentStart + int(it.innerLength)
	}

	d.resetItem()
	d.stack = append(d.stack, c)
	d.state = StateReadingTag
	if err := d.handler.ContainerBegin(&d.stack[len(d.stack)-1]); err != nil {
		return err
	}
	if c.Length == 0 {
		return d.innerDone()
	}
	return nil
}

func (d *StreamDecoder) leafDone() error {
	if d.item.outerLength.IsIndefinite() {
		d.terminator = termLeaf
		d.eocRead = 0
		d.state = StateReadingTerminator
		return nil
	}
	return d.finishLeaf()
}

func (d *StreamDecoder) finishLeaf() error {
	it := &d.item
	if it.end >= 0 && d.offset != it.end {
		return ErrLengthMismatch
	}
	item := AsyncItem{
		Tag:    it.appTag,
		Type:   it.typeTag,
		Value:  it.value,
		Offset: it.start,
		Size:   d.offset - it.start,
	}
	d.resetItem()
	d.state = StateReadingTag
	d.items++
	if err := d.handler.ItemReady(&item); err != nil {
		return err
	}
	return d.childDone(item.Size)
}

// childDone accounts a completed child of size bytes to its container and
// closes every container whose contents are now complete.
func (d *StreamDecoder) childDone(size int) error {
	if len(d.stack) == 0 {
		d.state = StateReadingTag
		return nil
	}
	top := &d.stack[len(d.stack)-1]
	top.BytesRead += size
	if !top.Length.IsIndefinite() {
		if top.BytesRead > int(top.Length) {
			return ErrBudgetExceeded
		}
		if top.BytesRead == int(top.Length) {
			return d.innerDone()
		}
	}
	d.state = StateReadingTag
	return nil
}

// innerDone is called when the innermost container's contents are complete.
func (d *StreamDecoder) innerDone() error {
	top := &d.stack[len(d.stack)-1]
	if top.OuterLength.IsIndefinite() {
		top.closing = true
		d.terminator = termContainer
		d.eocRead = 0
		d.state = StateReadingTerminator
		return nil
	}
	return d.finishContainer()
}

func (d *StreamDecoder) finishContainer() error {
	c := d.stack[len(d.stack)-1]
	d.stack = d.stack[:len(d.stack)-1]
	if !c.OuterLength.IsIndefinite() && d.offset != c.outerEnd {
		return ErrLengthMismatch
	}
	d.state = StateReadingTag
	d.containers++
	if err := d.handler.ContainerReady(&c); err != nil {
		return err
	}
	return d.childDone(c.Size(d.offset))
}

func (d *StreamDecoder) readTerminator(b byte) error {
	if d.terminator == termOptional {
		d.terminator = termNone
		if b == 0x00 {
			top := &d.stack[len(d.stack)-1]
			top.BytesRead += endOfContentsSize
			return d.innerDone()
		}
		// The 0x00 was an ordinary tag: universal, primitive, number 0.
		// This byte starts its outer length.
		d.item.appTag = Tag{}
		d.item.stage = stageOuterLength
		d.state = StateReadingLength
		return d.readLength(b)
	}

	if b != 0x00 {
		return ErrUnexpectedEOC
	}
	d.eocRead++
	if d.eocRead < endOfContentsSize {
		return nil
	}
	kind := d.terminator
	d.terminator = termNone
	d.eocRead = 0
	if kind == termLeaf {
		return d.finishLeaf()
	}
	return d.finishContainer()
}
