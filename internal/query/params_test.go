package query

import (
	"testing"

	"github.com/dmitrijs2005/usersapi/internal/common"
	"github.com/dmitrijs2005/usersapi/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRawQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"keeps request order", "email=e&gender=male&salt=s", `email = "e" AND gender = "male" AND salt = "s"`},
		{"bracketed nested", "location%5Bzip%5D=12345&location[city]=Cork", `location.zip = "12345" AND location.city = "Cork"`},
		{"range keys", "registeredMax=10&dobMin=3", `registered <= "10" AND dob >= "3"`},
		{"unescapes values", "name[first]=Mary+Ann&email=a%40b.c", `name.first = "Mary Ann" AND email = "a@b.c"`},
		{"empty values are absent", "gender=&dob=&email=e&&", `email = "e"`},
		{"zero is falsy", "location[zip]=0", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := FromRawQuery(tt.raw, schema.User)
			require.NoError(t, err)
			require.NoError(t, f.Validate(schema.User))
			assert.Equal(t, tt.want, BuildQuery(f))
		})
	}
}

func TestFromRawQuery_TypesIntFields(t *testing.T) {
	f, err := FromRawQuery("dob=42&location[zip]=7&phone=123", schema.User)
	require.NoError(t, err)

	terms := f.Terms()
	require.Len(t, terms, 3)
	assert.Equal(t, int64(42), terms[0].Value)
	assert.Equal(t, int64(7), terms[1].Nested[0].Value)
	assert.Equal(t, "123", terms[2].Value)
}

func TestFromRawQuery_Errors(t *testing.T) {
	for _, raw := range []string{
		"nickname=x",
		"location=Cork",
		"gender[x]=y",
		"location[country]=IE",
		"dob=yesterday",
		"dobMax=soon",
		"location[zip]=D02",
		"location[]=x",
		"[zip]=1",
		"location[zip=1",
		"location[a][b]=1",
		"gender=male&gender=female",
		"gender=%zz",
		"%zz=1",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := FromRawQuery(raw, schema.User)
			require.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}
