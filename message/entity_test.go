package message

import (
	"testing"

	"github.com/eben2468/srcwebsite-sub008/errs"
	"github.com/stretchr/testify/assert"
)

func TestSenderValidate(t *testing.T) {
	assert.NoError(t, CustomerSender(1).Validate())
	assert.NoError(t, AgentSender(2).Validate())
	assert.NoError(t, SystemSender().Validate())

	userID := int64(5)
	bad := Sender{Type: SenderSystem, UserID: &userID}
	assert.Equal(t, errs.KindValidation, errs.KindOf(bad.Validate()),
		"system sender never carries a user id")

	assert.Equal(t, errs.KindValidation, errs.KindOf(Sender{Type: SenderCustomer}.Validate()))
	assert.Equal(t, errs.KindValidation, errs.KindOf(Sender{Type: "bot"}.Validate()))
}

func TestSystemSenderHasNoUserID(t *testing.T) {
	s := SystemSender()
	assert.Equal(t, SenderSystem, s.Type)
	assert.Nil(t, s.UserID)
}

func TestValidType(t *testing.T) {
	for _, mt := range []string{TypeText, TypeSystem, TypeFile, TypeImage} {
		assert.True(t, ValidType(mt), mt)
	}
	assert.False(t, ValidType("video"))
}
