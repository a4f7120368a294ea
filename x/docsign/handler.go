package docsign

import (
	"github.com/iov-one/arbiter"
	"github.com/iov-one/arbiter/errors"
	"github.com/iov-one/arbiter/x"
)

const (
	initClerkCost      int64 = 100
	initDocumentCost   int64 = 200
	addSignatureCost   int64 = 50
	finalizeCost       int64 = 50
	stageUpgradeCost   int64 = 100
	upgradeLimitCost   int64 = 100
	addParticipantCost int64 = 50
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r arbiter.Registry, auth x.Authenticator) {
	b := newBuckets()
	r.Handle(PathInitClerk, InitClerkHandler{auth: auth, b: b})
	r.Handle(PathInitDocument, InitDocumentHandler{auth: auth, b: b})
	r.Handle(PathAddSignature, AddSignatureHandler{auth: auth, b: b})
	r.Handle(PathFinalize, FinalizeHandler{auth: auth, b: b})
	r.Handle(PathStageUpgrade, StageUpgradeHandler{auth: auth, b: b})
	r.Handle(PathUpgradeLimit, UpgradeLimitHandler{auth: auth, b: b})
	r.Handle(PathAddParticipant, AddParticipantHandler{auth: auth, b: b})
}

type buckets struct {
	clerks    ClerkBucket
	staged    ClerkBucket
	documents DocumentBucket
	contents  ContentBucket
}

func newBuckets() buckets {
	return buckets{
		clerks:    NewClerkBucket(),
		staged:    NewStagedBucket(),
		documents: NewDocumentBucket(),
		contents:  NewContentBucket(),
	}
}

// signingAuthority returns addr, or the main signer when addr is empty, and
// ensures that it signed the transaction.
func signingAuthority(ctx arbiter.Context, auth x.Authenticator, addr arbiter.Address) (arbiter.Address, error) {
	a := x.AddressOrSigner(ctx, auth, addr)
	if a == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	if !auth.HasAddress(ctx, a) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s did not sign", a)
	}
	return a, nil
}

func blockTime(ctx arbiter.Context) (arbiter.UnixTime, error) {
	now, err := arbiter.BlockTime(ctx)
	if err != nil {
		return 0, err
	}
	return arbiter.AsUnixTime(now), nil
}

// InitClerkHandler creates the clerk of an authority.
type InitClerkHandler struct {
	auth x.Authenticator
	b    buckets
}

var _ arbiter.Handler = InitClerkHandler{}

func (h InitClerkHandler) Check(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*arbiter.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &arbiter.CheckResult{GasAllocated: initClerkCost}, nil
}

func (h InitClerkHandler) Deliver(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*arbiter.DeliverResult, error) {
	addr, clerk, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.b.clerks.Put(db, addr, clerk); err != nil {
		return nil, errors.Wrap(err, "cannot store clerk")
	}
	return &arbiter.DeliverResult{Data: addr}, nil
}

func (h InitClerkHandler) validate(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (arbiter.Address, *Clerk, error) {
	var msg *InitClerkMsg
	if err := arbiter.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	authority, err := signingAuthority(ctx, h.auth, msg.Authority)
	if err != nil {
		return nil, nil, err
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, nil, err
	}
	if msg.Limit > conf.MaxCapacity {
		return nil, nil, errors.Wrapf(ErrInvalidCapacity, "limit %d above maximum %d", msg.Limit, conf.MaxCapacity)
	}

	addr, err := ClerkAddress(authority)
	if err != nil {
		return nil, nil, err
	}
	if has, err := h.b.clerks.Has(db, addr); err != nil {
		return nil, nil, err
	} else if has {
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "address already in use: %s", addr)
	}
	staged, err := StagedClerkAddress(authority)
	if err != nil {
		return nil, nil, err
	}
	if has, err := h.b.staged.Has(db, staged); err != nil {
		return nil, nil, err
	} else if has {
		return nil, nil, errors.Wrap(errors.ErrState, "clerk upgrade in progress")
	}

	clerk, err := NewClerk(authority, msg.Limit)
	if err != nil {
		return nil, nil, err
	}
	return addr, clerk, nil
}

// InitDocumentHandler creates a document and registers it with the clerk
// of its authority.
type InitDocumentHandler struct {
	auth x.Authenticator
	b    buckets
}

var _ arbiter.Handler = InitDocumentHandler{}

type initDocument struct {
	msg      *InitDocumentMsg
	clerkID  arbiter.Address
	clerk    *Clerk
	docID    arbiter.Address
	document *Document
}

func (h InitDocumentHandler) Check(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*arbiter.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &arbiter.CheckResult{GasAllocated: initDocumentCost}, nil
}

func (h InitDocumentHandler) Deliver(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*arbiter.DeliverResult, error) {
	op, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.b.documents.Put(db, op.docID, op.document); err != nil {
		return nil, errors.Wrap(err, "cannot store document")
	}
	if err := h.b.clerks.Put(db, op.clerkID, op.clerk); err != nil {
		return nil, errors.Wrap(err, "cannot store clerk")
	}
	if c := op.msg.Content(); c != nil {
		if err := h.b.contents.Put(db, op.docID, c); err != nil {
			return nil, errors.Wrap(err, "cannot store content")
		}
	}
	return &arbiter.DeliverResult{Data: op.docID}, nil
}

func (h InitDocumentHandler) validate(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*initDocument, error) {
	var msg *InitDocumentMsg
	if err := arbiter.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	authority, err := signingAuthority(ctx, h.auth, msg.Authority)
	if err != nil {
		return nil, err
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	if int64(len(msg.Title)) > conf.MaxTitleLength {
		return nil, errors.Field("Title", errors.ErrInput, "longer than %d bytes", conf.MaxTitleLength)
	}
	if int64(len(msg.Participants)) > conf.MaxParticipants {
		return nil, errors.Field("Participants", errors.ErrInput, "more than %d", conf.MaxParticipants)
	}
	now, err := blockTime(ctx)
	if err != nil {
		return nil, err
	}

	clerkID, err := ClerkAddress(authority)
	if err != nil {
		return nil, err
	}
	clerk, err := h.b.clerks.GetClerk(db, clerkID)
	if err != nil {
		return nil, err
	}
	if clerk.IsFull() {
		return nil, errors.Wrapf(ErrCapacityExceeded, "capacity %d", clerk.Capacity())
	}

	docID, err := DocumentAddress(authority, msg.Title)
	if err != nil {
		return nil, err
	}
	if has, err := h.b.documents.Has(db, docID); err != nil {
		return nil, err
	} else if has {
		return nil, errors.Wrapf(errors.ErrDuplicate, "address already in use: %s", docID)
	}

	doc, err := NewDocument(authority, msg.Title, msg.Participants, now)
	if err != nil {
		return nil, err
	}
	if err := clerk.Register(docID); err != nil {
		return nil, err
	}
	return &initDocument{
		msg:      msg,
		clerkID:  clerkID,
		clerk:    clerk,
		docID:    docID,
		document: doc,
	}, nil
}

// AddSignatureHandler records the signature of a participant.
type AddSignatureHandler struct {
	auth x.Authenticator
	b    buckets
}

var _ arbiter.Handler = AddSignatureHandler{}

func (h AddSignatureHandler) Check(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*arbiter.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &arbiter.CheckResult{GasAllocated: addSignatureCost}, nil
}

func (h AddSignatureHandler) Deliver(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*arbiter.DeliverResult, error) {
	docID, doc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.b.documents.Put(db, docID, doc); err != nil {
		return nil, errors.Wrap(err, "cannot store document")
	}
	return &arbiter.DeliverResult{Data: docID}, nil
}

func (h AddSignatureHandler) validate(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (arbiter.Address, *Document, error) {
	var msg *AddSignatureMsg
	if err := arbiter.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	participant, err := signingAuthority(ctx, h.auth, msg.Participant)
	if err != nil {
		return nil, nil, err
	}
	now, err := blockTime(ctx)
	if err != nil {
		return nil, nil, err
	}
	doc, err := h.b.documents.GetDocument(db, msg.DocumentID)
	if err != nil {
		return nil, nil, err
	}
	if err := doc.Sign(participant, now); err != nil {
		return nil, nil, err
	}
	return msg.DocumentID, doc, nil
}

// FinalizeHandler finalizes a fully signed document.
type FinalizeHandler struct {
	auth x.Authenticator
	b    buckets
}

var _ arbiter.Handler = FinalizeHandler{}

func (h FinalizeHandler) Check(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*arbiter.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &arbiter.CheckResult{GasAllocated: finalizeCost}, nil
}

func (h FinalizeHandler) Deliver(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*arbiter.DeliverResult, error) {
	docID, doc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.b.documents.Put(db, docID, doc); err != nil {
		return nil, errors.Wrap(err, "cannot store document")
	}
	return &arbiter.DeliverResult{Data: docID}, nil
}

func (h FinalizeHandler) validate(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (arbiter.Address, *Document, error) {
	var msg *FinalizeMsg
	if err := arbiter.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	now, err := blockTime(ctx)
	if err != nil {
		return nil, nil, err
	}
	doc, err := h.b.documents.GetDocument(db, msg.DocumentID)
	if err != nil {
		return nil, nil, err
	}
	clerk, err := h.b.clerks.GetClerk(db, msg.ClerkID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, doc.Authority) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "document authority did not sign")
	}
	if !clerk.IsCustodianOf(msg.DocumentID) {
		return nil, nil, errors.Wrapf(ErrClerkDoesNotHoldDocument, "%s", msg.DocumentID)
	}
	if err := doc.Finalize(now); err != nil {
		return nil, nil, err
	}
	return msg.DocumentID, doc, nil
}

// StageUpgradeHandler moves a full clerk to its staged address.
type StageUpgradeHandler struct {
	auth x.Authenticator
	b    buckets
}

var _ arbiter.Handler = StageUpgradeHandler{}

func (h StageUpgradeHandler) Check(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*arbiter.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &arbiter.CheckResult{GasAllocated: stageUpgradeCost}, nil
}

func (h StageUpgradeHandler) Deliver(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*arbiter.DeliverResult, error) {
	clerkID, stagedID, clerk, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.b.staged.Put(db, stagedID, clerk.Copy()); err != nil {
		return nil, errors.Wrap(err, "cannot store staged clerk")
	}
	if err := h.b.clerks.Delete(db, clerkID); err != nil {
		return nil, errors.Wrap(err, "cannot close clerk")
	}
	return &arbiter.DeliverResult{Data: stagedID}, nil
}

func (h StageUpgradeHandler) validate(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (arbiter.Address, arbiter.Address, *Clerk, error) {
	var msg *StageUpgradeMsg
	if err := arbiter.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	clerk, err := h.b.clerks.GetClerk(db, msg.ClerkID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !h.auth.HasAddress(ctx, clerk.Authority) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "clerk authority did not sign")
	}
	if want, err := ClerkAddress(clerk.Authority); err != nil {
		return nil, nil, nil, err
	} else if !want.Equals(msg.ClerkID) {
		return nil, nil, nil, errors.Wrap(errors.ErrInput, "clerk is not at its derived address")
	}
	if !clerk.IsFull() {
		return nil, nil, nil, errors.Wrapf(ErrClerkUpgradingWithRemainingSpace, "%d free slots", clerk.Remaining())
	}
	stagedID, err := StagedClerkAddress(clerk.Authority)
	if err != nil {
		return nil, nil, nil, err
	}
	if has, err := h.b.staged.Has(db, stagedID); err != nil {
		return nil, nil, nil, err
	} else if has {
		return nil, nil, nil, errors.Wrapf(errors.ErrDuplicate, "address already in use: %s", stagedID)
	}
	return msg.ClerkID, stagedID, clerk, nil
}

// UpgradeLimitHandler moves a staged clerk back to its canonical address
// with additional capacity.
type UpgradeLimitHandler struct {
	auth x.Authenticator
	b    buckets
}

var _ arbiter.Handler = UpgradeLimitHandler{}

func (h UpgradeLimitHandler) Check(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*arbiter.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &arbiter.CheckResult{GasAllocated: upgradeLimitCost}, nil
}

func (h UpgradeLimitHandler) Deliver(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*arbiter.DeliverResult, error) {
	op, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.b.clerks.Put(db, op.ClerkID, op.clerk); err != nil {
		return nil, errors.Wrap(err, "cannot store clerk")
	}
	if err := h.b.staged.Delete(db, op.StagedID); err != nil {
		return nil, errors.Wrap(err, "cannot close staged clerk")
	}
	return &arbiter.DeliverResult{Data: op.ClerkID}, nil
}

type upgradeLimit struct {
	*UpgradeLimitMsg
	clerk *Clerk
}

func (h UpgradeLimitHandler) validate(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*upgradeLimit, error) {
	var msg *UpgradeLimitMsg
	if err := arbiter.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	staged, err := h.b.staged.GetClerk(db, msg.StagedID)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, staged.Authority) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "clerk authority did not sign")
	}
	if want, err := StagedClerkAddress(staged.Authority); err != nil {
		return nil, err
	} else if !want.Equals(msg.StagedID) {
		return nil, errors.Wrap(errors.ErrInput, "staged clerk is not at its derived address")
	}
	if want, err := ClerkAddress(staged.Authority); err != nil {
		return nil, err
	} else if !want.Equals(msg.ClerkID) {
		return nil, errors.Wrap(errors.ErrInput, "clerk address does not match the authority")
	}
	if has, err := h.b.clerks.Has(db, msg.ClerkID); err != nil {
		return nil, err
	} else if has {
		return nil, errors.Wrapf(errors.ErrDuplicate, "address already in use: %s", msg.ClerkID)
	}

	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	if msg.IncreaseAmount > conf.MaxCapacity-int64(staged.Capacity()) {
		return nil, errors.Wrapf(ErrInvalidUpgradeAmount, "capacity above maximum %d", conf.MaxCapacity)
	}
	clerk, err := staged.Upgraded(msg.IncreaseAmount)
	if err != nil {
		return nil, err
	}
	return &upgradeLimit{UpgradeLimitMsg: msg, clerk: clerk}, nil
}

// AddParticipantHandler appends a participant to an open document.
type AddParticipantHandler struct {
	auth x.Authenticator
	b    buckets
}

var _ arbiter.Handler = AddParticipantHandler{}

func (h AddParticipantHandler) Check(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*arbiter.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &arbiter.CheckResult{GasAllocated: addParticipantCost}, nil
}

func (h AddParticipantHandler) Deliver(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (*arbiter.DeliverResult, error) {
	docID, doc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.b.documents.Put(db, docID, doc); err != nil {
		return nil, errors.Wrap(err, "cannot store document")
	}
	return &arbiter.DeliverResult{Data: docID}, nil
}

func (h AddParticipantHandler) validate(ctx arbiter.Context, db arbiter.KVStore, tx arbiter.Tx) (arbiter.Address, *Document, error) {
	var msg *AddParticipantMsg
	if err := arbiter.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	doc, err := h.b.documents.GetDocument(db, msg.DocumentID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, doc.Authority) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "document authority did not sign")
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, nil, err
	}
	if err := doc.AddParticipant(msg.Participant); err != nil {
		return nil, nil, err
	}
	if int64(len(doc.Participants)) > conf.MaxParticipants {
		return nil, nil, errors.Field("Participants", errors.ErrInput, "more than %d", conf.MaxParticipants)
	}
	return msg.DocumentID, doc, nil
}
