package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexString_AcceptsStringsAndNumbers(t *testing.T) {
	var req RegisterRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"A","age":34,"email":"a@b.c","password":"x"}`), &req))
	assert.Equal(t, "34", req.Age.String())
	assert.False(t, req.MissingFields())

	require.NoError(t, json.Unmarshal([]byte(`{"age":" 12 "}`), &req))
	assert.Equal(t, "12", req.Age.String())

	require.NoError(t, json.Unmarshal([]byte(`{"age":null}`), &req))
	assert.Equal(t, "", req.Age.String())

	assert.Error(t, json.Unmarshal([]byte(`{"age":{}}`), &req))
}

func TestMissingFields(t *testing.T) {
	assert.True(t, RegisterRequest{Name: "A", Email: "a@b.c", Password: "x"}.MissingFields())
	assert.True(t, LoginRequest{Email: "  "}.MissingFields())
	assert.True(t, CreateSchoolRequest{Name: "n", District: "d"}.MissingFields())
	assert.False(t, CreateSchoolRequest{Name: "n", Description: "x", District: "d"}.MissingFields())
	assert.True(t, CreateSponsorshipRequest{StudentID: "id"}.MissingFields())
	assert.True(t, TestWebhookRequest{Type: "t", SponsorID: "s", StudentID: "st"}.MissingFields())
}

func TestUpdateChanges_SkipEmpty(t *testing.T) {
	name, empty := "New", ""
	age := FlexString("13")
	school := UpdateSchoolRequest{Name: &name, District: &empty}
	assert.Equal(t, map[string]interface{}{"name": "New"}, school.Changes())

	student := UpdateStudentRequest{ParentName: &name, Age: &age, Email: &empty}
	assert.Equal(t, map[string]interface{}{"parent_name": "New", "age": "13"}, student.Changes())
}
