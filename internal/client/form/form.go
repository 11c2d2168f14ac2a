// Package form holds the create/edit state machine behind the console's
// user form. The form is in Creating mode unless an edit target is set.
package form

import (
	"context"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/dmitrijs2005/useradmin/internal/client/models"
)

type Field string

const (
	FieldName            Field = "name"
	FieldAddress         Field = "address"
	FieldPhoneNumber     Field = "phoneNumber"
	FieldProfilePic      Field = "profilePic"
	FieldDescriptionFile Field = "descriptionFile"
)

// Fields lists every field in display order.
var Fields = []Field{FieldName, FieldAddress, FieldPhoneNumber, FieldProfilePic, FieldDescriptionFile}

const (
	MsgNameRequired            = "Name is required"
	MsgAddressRequired         = "Address is required"
	MsgPhoneNumberRequired     = "Phone number is required"
	MsgProfilePicRequired      = "Profile picture is required"
	MsgDescriptionFileRequired = "Description file is required"
)

type Outcome int

const (
	OutcomeInvalid Outcome = iota
	OutcomeCreated
	OutcomeUpdated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	default:
		return "invalid"
	}
}

// Synchronizer is the write side of the user service.
type Synchronizer interface {
	Create(ctx context.Context, draft models.Draft) error
	Update(ctx context.Context, id int64, draft models.Draft) error
}

type Form struct {
	users Synchronizer

	mu     sync.Mutex
	draft  models.Draft
	target *int64
	errs   map[Field]string
}

func New(s Synchronizer) *Form {
	return &Form{users: s, errs: emptyErrors()}
}

func emptyErrors() map[Field]string {
	m := make(map[Field]string, len(Fields))
	for _, f := range Fields {
		m[f] = ""
	}
	return m
}

func (f *Form) SetName(v string) {
	f.set(FieldName, func(d *models.Draft) { d.Name = v })
}

func (f *Form) SetAddress(v string) {
	f.set(FieldAddress, func(d *models.Draft) { d.Address = v })
}

func (f *Form) SetPhoneNumber(v string) {
	f.set(FieldPhoneNumber, func(d *models.Draft) { d.PhoneNumber = v })
}

func (f *Form) SetProfilePic(h *models.FileHandle) {
	f.set(FieldProfilePic, func(d *models.Draft) { d.ProfilePic = h })
}

func (f *Form) SetDescriptionFile(h *models.FileHandle) {
	f.set(FieldDescriptionFile, func(d *models.Draft) { d.DescriptionFile = h })
}

func (f *Form) set(field Field, apply func(*models.Draft)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	apply(&f.draft)
	f.errs[field] = ""
}

// BeginEdit switches to Editing(r.ID) and seeds the scalar fields from r.
// File fields start empty.
func (f *Form) BeginEdit(r models.UserRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := r.ID
	f.target = &id
	f.draft = models.Draft{Name: r.Name, Address: r.Address, PhoneNumber: r.PhoneNumber}
	f.errs = emptyErrors()
}

// Cancel drops any draft and returns to Creating.
func (f *Form) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

func (f *Form) reset() {
	f.target = nil
	f.draft = models.Draft{}
	f.errs = emptyErrors()
}

func (f *Form) Draft() models.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// EditTarget returns the record id being edited, if any.
func (f *Form) EditTarget() (int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.target == nil {
		return 0, false
	}
	return *f.target, true
}

func (f *Form) Editing() bool {
	_, ok := f.EditTarget()
	return ok
}

// Errors returns a copy of the error map with a slot for every field.
func (f *Form) Errors() map[Field]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[Field]string, len(f.errs))
	for k, v := range f.errs {
		out[k] = v
	}
	return out
}

// Submit validates the draft and, when valid, sends it through the
// synchronizer. Invalid input yields OutcomeInvalid with a nil error and no
// request. A failed request keeps the draft and error map as they were.
func (f *Form) Submit(ctx context.Context) (Outcome, error) {
	f.mu.Lock()
	draft := f.draft
	var target *int64
	if f.target != nil {
		id := *f.target
		target = &id
	}
	errs := validate(draft, target != nil)
	if hasErrors(errs) {
		f.errs = errs
		f.mu.Unlock()
		return OutcomeInvalid, nil
	}
	f.errs = errs
	f.mu.Unlock()

	outcome := OutcomeCreated
	var err error
	if target == nil {
		err = f.users.Create(ctx, draft)
	} else {
		outcome = OutcomeUpdated
		err = f.users.Update(ctx, *target, draft)
	}
	if err != nil {
		return OutcomeInvalid, err
	}

	f.mu.Lock()
	f.reset()
	f.mu.Unlock()
	return outcome, nil
}

func validate(d models.Draft, editing bool) map[Field]string {
	errs := emptyErrors()

	check := func(field Field, value any, msg string) {
		if err := validation.Validate(value, validation.Required.Error(msg)); err != nil {
			errs[field] = err.Error()
		}
	}

	check(FieldName, d.Name, MsgNameRequired)
	check(FieldAddress, d.Address, MsgAddressRequired)
	check(FieldPhoneNumber, d.PhoneNumber, MsgPhoneNumberRequired)

	if !editing {
		check(FieldProfilePic, d.ProfilePic, MsgProfilePicRequired)
		check(FieldDescriptionFile, d.DescriptionFile, MsgDescriptionFileRequired)
	}
	return errs
}

func hasErrors(errs map[Field]string) bool {
	for _, v := range errs {
		if v != "" {
			return true
		}
	}
	return false
}
