// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

// ECPoint is the wire representation of a curve point: big-endian,
// unsigned-magnitude coordinates. crypto.ECPoint converts to and from this
// shape at the message boundary (see crypto.NewECPointFromProtobuf /
// crypto.ECPoint.ToProtobufPoint).
type ECPoint struct {
	X []byte
	Y []byte
}

func (m *ECPoint) GetX() []byte {
	if m != nil {
		return m.X
	}
	return nil
}

func (m *ECPoint) GetY() []byte {
	if m != nil {
		return m.Y
	}
	return nil
}

// ECSignature is a completed ECDSA signature in the wire shape produced by
// the signing protocol's finalization step.
type ECSignature struct {
	R                 []byte
	S                 []byte
	Signature         []byte
	SignatureRecovery []byte
	M                 []byte
}

func (m *ECSignature) GetR() []byte {
	if m != nil {
		return m.R
	}
	return nil
}

func (m *ECSignature) GetS() []byte {
	if m != nil {
		return m.S
	}
	return nil
}

func (m *ECSignature) GetSignature() []byte {
	if m != nil {
		return m.Signature
	}
	return nil
}

func (m *ECSignature) GetSignatureRecovery() []byte {
	if m != nil {
		return m.SignatureRecovery
	}
	return nil
}

func (m *ECSignature) GetM() []byte {
	if m != nil {
		return m.M
	}
	return nil
}

// SignatureData_OneRoundData is the state a party must retain across the
// "pre-processing" rounds of signing so that, given only the message digest,
// it can later compute its signature share in a single additional round
// (GG20's one-round online-signing mode). Every field here is either public
// or already known to every other party, except KI and RSigmaI which are
// each party's own secret share material.
type SignatureData_OneRoundData struct {
	KI       []byte
	RSigmaI  []byte
	T        int32
	BigR     *ECPoint
	BigRBarJ map[string]*ECPoint
	BigSJ    map[string]*ECPoint
}

func (m *SignatureData_OneRoundData) GetKI() []byte {
	if m != nil {
		return m.KI
	}
	return nil
}

func (m *SignatureData_OneRoundData) GetRSigmaI() []byte {
	if m != nil {
		return m.RSigmaI
	}
	return nil
}

func (m *SignatureData_OneRoundData) GetT() int32 {
	if m != nil {
		return m.T
	}
	return 0
}

func (m *SignatureData_OneRoundData) GetBigR() *ECPoint {
	if m != nil {
		return m.BigR
	}
	return nil
}

func (m *SignatureData_OneRoundData) GetBigRBarJ() map[string]*ECPoint {
	if m != nil {
		return m.BigRBarJ
	}
	return nil
}

func (m *SignatureData_OneRoundData) GetBigSJ() map[string]*ECPoint {
	if m != nil {
		return m.BigSJ
	}
	return nil
}

// SignatureData is the output of the signing protocol: either the completed
// signature (Signature), the one-round pre-processing state (OneRoundData),
// or both transiently while finalization is still verifying and has not yet
// wiped OneRoundData (see FinalizeGetAndVerifyFinalSig, which zeroes
// OneRoundData once the signature is produced: reusing R after the
// signature is final would leak the private key).
type SignatureData struct {
	Signature    *ECSignature
	OneRoundData *SignatureData_OneRoundData
}

func (m *SignatureData) GetSignature() *ECSignature {
	if m != nil {
		return m.Signature
	}
	return nil
}

func (m *SignatureData) GetOneRoundData() *SignatureData_OneRoundData {
	if m != nil {
		return m.OneRoundData
	}
	return nil
}

func (m *SignatureData) GetR() []byte {
	return m.GetSignature().GetR()
}

func (m *SignatureData) GetS() []byte {
	return m.GetSignature().GetS()
}

func (m *SignatureData) GetSignatureRecovery() []byte {
	return m.GetSignature().GetSignatureRecovery()
}
