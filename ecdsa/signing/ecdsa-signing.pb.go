// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package signing

import (
	"fmt"

	"github.com/bnb-chain/threshold-signer/common"
)

// Message shapes for the GG18/GG20 signing rounds. These travel over gob
// (see wire.go) rather than the protobuf wire format; they still implement
// proto.Message (Reset/String/ProtoMessage) so they satisfy tss.MessageContent.

// SignRound1Message1 is a P2P message sent to each counterparty in round 1:
// the ciphertext of k_i under our Paillier key, and a range proof tailored
// to that counterparty's NTilde/H1/H2.
type SignRound1Message1 struct {
	C               []byte
	RangeProofAlice [][]byte
}

func (m *SignRound1Message1) Reset()         { *m = SignRound1Message1{} }
func (m *SignRound1Message1) String() string { return fmt.Sprintf("%+v", *m) }
func (*SignRound1Message1) ProtoMessage()    {}

func (m *SignRound1Message1) GetC() []byte {
	if m != nil {
		return m.C
	}
	return nil
}

func (m *SignRound1Message1) GetRangeProofAlice() [][]byte {
	if m != nil {
		return m.RangeProofAlice
	}
	return nil
}

// SignRound1Message2 is broadcast in round 1: the commitment to bigGamma_i.
type SignRound1Message2 struct {
	Commitment []byte
}

func (m *SignRound1Message2) Reset()         { *m = SignRound1Message2{} }
func (m *SignRound1Message2) String() string { return fmt.Sprintf("%+v", *m) }
func (*SignRound1Message2) ProtoMessage()    {}

func (m *SignRound1Message2) GetCommitment() []byte {
	if m != nil {
		return m.Commitment
	}
	return nil
}

// SignRound2Message is a P2P MtA message: the Bob_mid/Bob_mid_wc ciphertexts
// and their accompanying range proofs.
type SignRound2Message struct {
	C1         []byte
	ProofBob   [][]byte
	C2         []byte
	ProofBobWc [][]byte
}

func (m *SignRound2Message) Reset()         { *m = SignRound2Message{} }
func (m *SignRound2Message) String() string { return fmt.Sprintf("%+v", *m) }
func (*SignRound2Message) ProtoMessage()    {}

func (m *SignRound2Message) GetC1() []byte {
	if m != nil {
		return m.C1
	}
	return nil
}

func (m *SignRound2Message) GetProofBob() [][]byte {
	if m != nil {
		return m.ProofBob
	}
	return nil
}

func (m *SignRound2Message) GetC2() []byte {
	if m != nil {
		return m.C2
	}
	return nil
}

func (m *SignRound2Message) GetProofBobWc() [][]byte {
	if m != nil {
		return m.ProofBobWc
	}
	return nil
}

// SignRound3Message is broadcast in round 3: delta_i plus the GG20 T_i
// commitment (g^sigma_i h^l_i) and its ZK proof.
type SignRound3Message struct {
	DeltaI      []byte
	TI          *common.ECPoint
	TProofAlpha *common.ECPoint
	TProofT     []byte
	TProofU     []byte
}

func (m *SignRound3Message) Reset()         { *m = SignRound3Message{} }
func (m *SignRound3Message) String() string { return fmt.Sprintf("%+v", *m) }
func (*SignRound3Message) ProtoMessage()    {}

func (m *SignRound3Message) GetDeltaI() []byte {
	if m != nil {
		return m.DeltaI
	}
	return nil
}

func (m *SignRound3Message) GetTI() *common.ECPoint {
	if m != nil {
		return m.TI
	}
	return nil
}

// SignRound4Message is broadcast in round 4: the de-commitment of bigGamma_i
// and a Schnorr proof of knowledge of gamma_i.
type SignRound4Message struct {
	DeCommitment [][]byte
	ProofAlpha   *common.ECPoint
	ProofT       []byte
}

func (m *SignRound4Message) Reset()         { *m = SignRound4Message{} }
func (m *SignRound4Message) String() string { return fmt.Sprintf("%+v", *m) }
func (*SignRound4Message) ProtoMessage()    {}

func (m *SignRound4Message) GetDeCommitment() [][]byte {
	if m != nil {
		return m.DeCommitment
	}
	return nil
}

// SignRound5Message is broadcast in round 5: Rdash_i = k_i * R, together with
// the PDL-with-slack proof tying it back to E(k_i).
type SignRound5Message struct {
	RI             *common.ECPoint
	PdlWSlackProof [][]byte
}

func (m *SignRound5Message) Reset()         { *m = SignRound5Message{} }
func (m *SignRound5Message) String() string { return fmt.Sprintf("%+v", *m) }
func (*SignRound5Message) ProtoMessage()    {}

func (m *SignRound5Message) GetPdlWSlackProof() [][]byte {
	if m != nil {
		return m.PdlWSlackProof
	}
	return nil
}

// SignRound6Message_AbortData is revealed by every party when a Type 5
// identified abort is triggered: enough secret material to let the other
// parties recompute delta_j and find the culprit.
type SignRound6Message_AbortData struct {
	GammaI  []byte
	KI      []byte
	AlphaIJ [][]byte
	BetaJI  [][]byte
}

func (m *SignRound6Message_AbortData) GetGammaI() []byte {
	if m != nil {
		return m.GammaI
	}
	return nil
}

func (m *SignRound6Message_AbortData) GetKI() []byte {
	if m != nil {
		return m.KI
	}
	return nil
}

func (m *SignRound6Message_AbortData) GetAlphaIJ() [][]byte {
	if m != nil {
		return m.AlphaIJ
	}
	return nil
}

func (m *SignRound6Message_AbortData) GetBetaJI() [][]byte {
	if m != nil {
		return m.BetaJI
	}
	return nil
}

// SignRound6Message_SuccessData carries S_i = R^sigma_i and its ZK proof of
// consistency with T_i.
type SignRound6Message_SuccessData struct {
	SI           *common.ECPoint
	StProofAlpha *common.ECPoint
	StProofBeta  *common.ECPoint
	StProofT     []byte
	StProofU     []byte
}

// isSignRound6Message_Content is the oneof interface for SignRound6Message:
// either the round is aborting (Type 5) or it succeeded.
type isSignRound6Message_Content interface {
	isSignRound6Message_Content()
}

type SignRound6Message_Abort struct {
	Abort *SignRound6Message_AbortData
}

type SignRound6Message_Success struct {
	Success *SignRound6Message_SuccessData
}

func (*SignRound6Message_Abort) isSignRound6Message_Content()   {}
func (*SignRound6Message_Success) isSignRound6Message_Content() {}

type SignRound6Message struct {
	Content isSignRound6Message_Content
}

func (m *SignRound6Message) Reset()         { *m = SignRound6Message{} }
func (m *SignRound6Message) String() string { return fmt.Sprintf("%+v", *m) }
func (*SignRound6Message) ProtoMessage()    {}

func (m *SignRound6Message) GetContent() isSignRound6Message_Content {
	if m != nil {
		return m.Content
	}
	return nil
}

// SignRound7Message_AbortData is revealed by every party when a Type 7
// identified abort is triggered: enough secret material to let the other
// parties recompute g^sigma_j and find the culprit.
type SignRound7Message_AbortData struct {
	KI           []byte
	KRandI       []byte
	MuIJ         [][]byte
	EcddhProofA1 *common.ECPoint
	EcddhProofA2 *common.ECPoint
	EcddhProofZ  []byte
}

func (m *SignRound7Message_AbortData) GetKI() []byte {
	if m != nil {
		return m.KI
	}
	return nil
}

func (m *SignRound7Message_AbortData) GetKRandI() []byte {
	if m != nil {
		return m.KRandI
	}
	return nil
}

func (m *SignRound7Message_AbortData) GetMuIJ() [][]byte {
	if m != nil {
		return m.MuIJ
	}
	return nil
}

// isSignRound7Message_Content is the oneof interface for SignRound7Message:
// either the round is aborting (Type 7) or it carries the final s_i share.
type isSignRound7Message_Content interface {
	isSignRound7Message_Content()
}

type SignRound7Message_Abort struct {
	Abort *SignRound7Message_AbortData
}

type SignRound7Message_SI struct {
	SI []byte
}

func (*SignRound7Message_Abort) isSignRound7Message_Content() {}
func (*SignRound7Message_SI) isSignRound7Message_Content()    {}

type SignRound7Message struct {
	Content isSignRound7Message_Content
}

func (m *SignRound7Message) Reset()         { *m = SignRound7Message{} }
func (m *SignRound7Message) String() string { return fmt.Sprintf("%+v", *m) }
func (*SignRound7Message) ProtoMessage()    {}

func (m *SignRound7Message) GetContent() isSignRound7Message_Content {
	if m != nil {
		return m.Content
	}
	return nil
}
