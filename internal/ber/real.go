package ber

import (
	"math"
	"math/bits"
)

// Real values use the binary form of X.690 8.5 only: a preamble byte, a
// signed exponent of 1-4 bytes and an unsigned mantissa. The exponent is
// the unbiased IEEE-754 exponent and the mantissa has its trailing zero
// bits removed, so a decoder must renormalize the mantissa rather than
// compute mantissa * 2^exponent. Peers of this protocol rely on that.
const (
	realBinary       = 0x80
	realNegative     = 0x40
	realScaleShift   = 2
	realScaleMask    = 0x03
	realExponentMask = 0x03

	realPlusInfinity  = 0x40
	realMinusInfinity = 0x41
	realNotANumber    = 0x42
	realMinusZero     = 0x43
)

const (
	float64MantissaBits = 52
	float64ExponentBias = 1023
	float64ExponentMask = 0x7FF
	float64FracMask     = 1<<float64MantissaBits - 1
	float64MinExponent  = -1022
)

// decomposeReal splits a finite, non-zero v into sign, unbiased exponent
// and a mantissa with its trailing zero bits removed.
func decomposeReal(v float64) (negative bool, exponent int64, mantissa uint64) {
	raw := math.Float64bits(v)
	negative = raw>>63 != 0
	biased := int64(raw>>float64MantissaBits) & float64ExponentMask
	frac := raw & float64FracMask

	if biased == 0 {
		// subnormal: normalize so the leading one sits at bit 52
		exponent = float64MinExponent
		mantissa = frac
		for mantissa&(1<<float64MantissaBits) == 0 {
			mantissa <<= 1
			exponent--
		}
	} else {
		exponent = biased - float64ExponentBias
		mantissa = frac | 1<<float64MantissaBits
	}

	for mantissa&0xFF == 0 {
		mantissa >>= 8
	}
	for mantissa&0x01 == 0 {
		mantissa >>= 1
	}
	return negative, exponent, mantissa
}

// realLength returns the number of value bytes appendReal produces.
func realLength(v float64) int {
	switch {
	case v == 0:
		return 0
	case math.IsInf(v, 0), math.IsNaN(v):
		return 1
	}
	_, exponent, mantissa := decomposeReal(v)
	return 1 + signedLength(exponent) + unsignedLength(mantissa)
}

// appendReal appends the value bytes of v. Zero, of either sign, has no
// value bytes at all.
func appendReal(dst []byte, v float64) []byte {
	switch {
	case v == 0:
		return dst
	case math.IsInf(v, 1):
		return append(dst, realPlusInfinity)
	case math.IsInf(v, -1):
		return append(dst, realMinusInfinity)
	case math.IsNaN(v):
		return append(dst, realNotANumber)
	}

	negative, exponent, mantissa := decomposeReal(v)
	expLen := signedLength(exponent)
	preamble := byte(realBinary) | byte(expLen-1)
	if negative {
		preamble |= realNegative
	}
	dst = append(dst, preamble)
	dst = appendSigned(dst, exponent)
	return appendUnsigned(dst, mantissa)
}

// decodeReal decodes the value bytes of a Real.
//
// The infinity shortcuts apply only when the value is exactly one byte. A
// two byte value starting with 0x40 is decoded as an ordinary binary real,
// which yields -1.0 for 0x40 0x00.
func decodeReal(data []byte) (float64, error) {
	if len(data) == 0 {
		return 0, nil
	}
	preamble := data[0]
	if len(data) == 1 {
		switch preamble {
		case realPlusInfinity:
			return math.Inf(1), nil
		case realMinusInfinity:
			return math.Inf(-1), nil
		case realNotANumber:
			return math.NaN(), nil
		case realMinusZero:
			return math.Copysign(0, -1), nil
		}
	}

	expLen := int(preamble&realExponentMask) + 1
	if len(data) < 1+expLen {
		return 0, ErrInvalidReal
	}
	exponent, err := decodeSigned(data[1 : 1+expLen])
	if err != nil {
		return 0, ErrInvalidReal
	}

	var mantissa uint64
	if rest := data[1+expLen:]; len(rest) > 0 {
		if len(rest) > 8 {
			return 0, ErrInvalidReal
		}
		for _, b := range rest {
			mantissa = mantissa<<8 | uint64(b)
		}
	}
	mantissa <<= (preamble >> realScaleShift) & realScaleMask

	// A zero mantissa still carries the implicit leading one.
	if mantissa == 0 {
		mantissa = 1
	}
	top := bits.Len64(mantissa) - 1
	if exponent > math.MaxInt32 || exponent < math.MinInt32 {
		return 0, ErrInvalidReal
	}
	result := math.Ldexp(float64(mantissa), int(exponent)-top)
	if preamble&realNegative != 0 {
		result = -result
	}
	return result, nil
}
