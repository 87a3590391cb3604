package validation

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"service-desk/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
	bmpHeader  = append([]byte("BM"), make([]byte, 52)...)
	gifHeader  = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
)

func validRegister() model.RegisterInput {
	return model.RegisterInput{
		Username:        "ivan.petrov",
		Email:           "ivan@example.com",
		DisplayName:     "Ivan Petrov",
		Password:        "Tr0ub4dor&3x",
		PasswordConfirm: "Tr0ub4dor&3x",
	}
}

func TestRegister(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.True(t, Register(validRegister()).Empty())
	})

	t.Run("username format", func(t *testing.T) {
		for _, name := range []string{"ivan petrov", "ivan!", "who?", "semi;colon", "slash/name"} {
			in := validRegister()
			in.Username = name
			errs := Register(in)
			assert.True(t, errs.Has("username", InvalidFormat), name)
		}
	})

	t.Run("allowed username characters", func(t *testing.T) {
		for _, name := range []string{"a.b", "a@b", "a+b", "a-b", "a_b", "Иван"} {
			in := validRegister()
			in.Username = name
			assert.False(t, Register(in).Has("username", InvalidFormat), name)
		}
	})

	t.Run("password mismatch", func(t *testing.T) {
		in := validRegister()
		in.PasswordConfirm = "something-else-entirely"
		errs := Register(in)
		assert.True(t, errs.Has("password2", Mismatch))
		assert.Empty(t, errs["password1"])
	})

	t.Run("weak passwords", func(t *testing.T) {
		cases := map[string]string{
			"short":    "aB3$x",
			"common":   "password123",
			"numeric":  "8403917265",
			"personal": "ivan.petrov2024",
		}
		for name, pw := range cases {
			in := validRegister()
			in.Password, in.PasswordConfirm = pw, pw
			assert.True(t, Register(in).Has("password1", WeakPassword), name)
		}
	})

	t.Run("leaked and guessable passwords", func(t *testing.T) {
		for _, pw := range []string{"abcd1234", "qwerty12", "iloveyou1", "football1", "1q2w3e4r5t6y"} {
			problems := Password(pw, "ivan", "ivan@example.com")
			assert.NotEmpty(t, problems, pw)
			for _, p := range problems {
				assert.Equal(t, WeakPassword, p.Code, pw)
			}
		}
	})

	t.Run("strong password accepted", func(t *testing.T) {
		assert.Empty(t, Password("Tr0ub4dor&3x", "ivan", "ivan@example.com"))
	})

	t.Run("all failures collected", func(t *testing.T) {
		errs := Register(model.RegisterInput{Username: "bad name", Email: "not-an-email"})
		assert.True(t, errs.Has("username", InvalidFormat))
		assert.True(t, errs.Has("email", InvalidEmail))
		assert.True(t, errs.Has("password1", Required))
		assert.True(t, errs.Has("password2", Required))
	})
}

func TestCreateRequest(t *testing.T) {
	t.Run("title too short", func(t *testing.T) {
		errs := CreateRequest(model.CreateRequestInput{Title: "Hi", Description: "Door handle broken"}, 0)
		assert.True(t, errs.Has("title", TooShort))
		assert.Empty(t, errs["description"])
	})

	t.Run("whitespace does not count", func(t *testing.T) {
		errs := CreateRequest(model.CreateRequestInput{Title: "  ab  ", Description: "   short    "}, 0)
		assert.True(t, errs.Has("title", TooShort))
		assert.True(t, errs.Has("description", TooShort))
	})

	t.Run("valid", func(t *testing.T) {
		errs := CreateRequest(model.CreateRequestInput{Title: "Fix door", Description: "Door handle broken"}, 0)
		assert.True(t, errs.Empty())
	})

	t.Run("title too long", func(t *testing.T) {
		errs := CreateRequest(model.CreateRequestInput{Title: strings.Repeat("x", 201), Description: "Door handle broken"}, 0)
		assert.True(t, errs.Has("title", TooLong))
	})
}

func TestPhoto(t *testing.T) {
	t.Run("allowed formats", func(t *testing.T) {
		for name, content := range map[string][]byte{"png": pngHeader, "jpeg": jpegHeader, "bmp": bmpHeader} {
			problems := Photo(&model.PhotoUpload{Filename: "room." + name, Content: content}, 0)
			assert.Empty(t, problems, name)
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		problems := Photo(&model.PhotoUpload{Filename: "room.png", Content: gifHeader}, 0)
		assert.Len(t, problems, 1)
		assert.Equal(t, UnsupportedFormat, problems[0].Code)
	})

	t.Run("too large", func(t *testing.T) {
		content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 3*1024*1024)...)
		problems := Photo(&model.PhotoUpload{Filename: "big.png", Size: int64(len(content)), Content: content}, DefaultMaxPhotoBytes)
		assert.Len(t, problems, 1)
		assert.Equal(t, TooLarge, problems[0].Code)
	})

	t.Run("extension comes from content", func(t *testing.T) {
		ext, ok := PhotoExtension(jpegHeader)
		assert.True(t, ok)
		assert.Equal(t, ".jpg", ext)
	})

	t.Run("no photo", func(t *testing.T) {
		assert.Nil(t, Photo(nil, 0))
	})
}

func TestCategoryAndStatus(t *testing.T) {
	assert.True(t, Category(model.CategoryInput{Name: " a "}).Has("name", TooShort))
	assert.True(t, Category(model.CategoryInput{Name: ""}).Has("name", Required))
	assert.True(t, Category(model.CategoryInput{Name: "Plumbing"}).Empty())

	assert.True(t, ChangeStatus(model.ChangeStatusInput{Status: "archived"}).Has("status", InvalidChoice))
	assert.True(t, ChangeStatus(model.ChangeStatusInput{}).Has("status", Required))
	for _, s := range model.Statuses {
		assert.True(t, ChangeStatus(model.ChangeStatusInput{Status: s}).Empty())
	}
}

func TestErrors(t *testing.T) {
	errs := Errors{}
	assert.True(t, errs.Empty())

	errs.Add("title", TooShort, "too short")
	errs.Add("email", Duplicate, "taken")
	assert.False(t, errs.Empty())
	assert.Equal(t, "validation failed: email: taken; title: too short", errs.Error())
}
