package goknot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolynomialString(t *testing.T) {
	cases := []struct {
		P    Polynomial
		want string
	}{
		{nil, "0"},
		{One, "1"},
		{PolynomialFromCoeffs(-1, 1, -1, 1), "t - 1 + t^-1"},
		{PolynomialFromCoeffs(-1, -1, 3, -1), "-t + 3 - t^-1"},
		{PolynomialFromCoeffs(0, 1, -1, 1), "t^2 - t + 1"},
		{PolynomialFromCoeffs(-2, 1, -1, 1, -1, 1), "t^2 - t + 1 - t^-1 + t^-2"},
		{PolynomialFromCoeffs(-1, 2, -3, 2), "2t - 3 + 2t^-1"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.P.String())
	}
}

func TestPolynomialNormalize(t *testing.T) {
	trefoil := PolynomialFromCoeffs(-1, 1, -1, 1)

	// t^2 - t + 1
	require.True(t, PolynomialFromCoeffs(0, 1, -1, 1).Normalize().IsEqual(trefoil))

	// -t^5 + t^4 - t^3
	require.True(t, PolynomialFromCoeffs(3, -1, 1, -1).Normalize().IsEqual(trefoil))

	// t^3 - 3t^2 + t, the raw figure-eight determinant
	fig8 := PolynomialFromCoeffs(1, 1, -3, 1).Normalize()
	assert.Equal(t, "-t + 3 - t^-1", fig8.String())
	assert.Equal(t, int64(1), fig8.At1())

	// Odd span keeps the lowest exponent at 0
	odd := PolynomialFromCoeffs(4, 2, -1).Normalize()
	assert.Equal(t, int32(0), odd[0].Exp)
	assert.Equal(t, int64(1), odd.At1())

	// P(1) = 0 falls back to a positive leading coefficient
	zeroAt1 := PolynomialFromCoeffs(0, 1, -1).Normalize()
	assert.Equal(t, int64(-1), zeroAt1[0].Coeff)
	assert.Equal(t, int64(1), zeroAt1[1].Coeff)

	require.True(t, Polynomial(nil).Normalize().IsZero())
	require.True(t, PolynomialFromCoeffs(7, -1).Normalize().IsOne())
}

func TestPolynomialEqualUpToUnit(t *testing.T) {
	A := PolynomialFromCoeffs(0, 1, -1, 1)
	B := PolynomialFromCoeffs(-5, -1, 1, -1)
	C := PolynomialFromCoeffs(0, 1, -3, 1)
	assert.True(t, A.EqualUpToUnit(B))
	assert.False(t, A.EqualUpToUnit(C))
}

func TestPolynomialCoefficients(t *testing.T) {
	P := NewPolynomial(map[int32]int64{-1: -1, 0: 3, 1: -1, 4: 0})
	require.Len(t, P, 3)
	assert.Equal(t, map[int32]int64{-1: -1, 0: 3, 1: -1}, P.Coefficients())
	assert.Equal(t, int32(2), P.Span())
}

func TestPolynomialKeyEncoding(t *testing.T) {
	P := PolynomialFromCoeffs(-2, 1, -3, 5, -3, 1)

	{
		var scrap [4]byte
		checkKeyEncoding(t, P, scrap[:0])
	}
	{
		var scrap [200]byte
		checkKeyEncoding(t, P, scrap[:0])
	}

	// Encodings are self-delimiting
	key := P.AppendKey(nil)
	key = append(key, 0x00, 'x')
	var Q Polynomial
	n, err := Q.InitFromKey(key)
	require.NoError(t, err)
	assert.Equal(t, len(key)-2, n)
	assert.True(t, P.IsEqual(Q))

	_, err = Q.InitFromKey([]byte{0x05, 0x02})
	assert.ErrorIs(t, err, ErrUnmarshal)
}

func checkKeyEncoding(t *testing.T, P Polynomial, scrap []byte) {
	enc := P.AppendKey(scrap)

	var dec Polynomial
	_, err := dec.InitFromKey(enc)
	if err != nil {
		t.Fatalf("polynomial encoding error: %v", err)
	}
	if !P.IsEqual(dec) {
		t.Fatalf("polynomial encoding failed, should be:\n     %v\ngot:\n    %v", P, dec)
	}
}
