package crud_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolypto/apiens/crud"
)

func TestCustomFieldSavers(t *testing.T) {
	t.Run("pluck removes handled fields from the input", func(t *testing.T) {
		savers := crud.NewCustomFieldSavers(crud.CustomFieldSaver{
			Name:   "articles",
			Fields: []string{"articles"},
		})

		input := map[string]any{"name": "John", "articles": []any{"a", "b"}}
		plucked := savers.Pluck(input)

		assert.Equal(t, map[string]any{"name": "John"}, input)
		require.Len(t, plucked, 1)
		assert.Equal(t, map[string]any{"articles": []any{"a", "b"}}, plucked[0].Values)
	})

	t.Run("every saver is invoked, even without values", func(t *testing.T) {
		var calls []string
		saver := func(name string, fields ...string) crud.CustomFieldSaver {
			return crud.CustomFieldSaver{
				Name:   name,
				Fields: fields,
				Save: func(instance, prev any, values map[string]any) error {
					calls = append(calls, name)
					return nil
				},
			}
		}

		savers := crud.NewCustomFieldSavers(
			saver("password", "password"),
			saver("articles", "articles"),
		)

		input := map[string]any{"password": "secret"}
		plucked := savers.Pluck(input)
		require.NoError(t, savers.Save(plucked, &User{}, nil))

		assert.Equal(t, []string{"password", "articles"}, calls)
		assert.Empty(t, plucked[1].Values, "no articles value was given")
	})

	t.Run("save receives the instance and the previous version", func(t *testing.T) {
		instance, prev := &User{}, &User{Name: "old"}

		savers := crud.NewCustomFieldSavers(crud.CustomFieldSaver{
			Name:   "name",
			Fields: []string{"name"},
			Save: func(gotInstance, gotPrev any, values map[string]any) error {
				assert.Same(t, instance, gotInstance)
				assert.Same(t, prev, gotPrev)
				gotInstance.(*User).Name = values["name"].(string)
				return nil
			},
		})

		plucked := savers.Pluck(map[string]any{"name": "new"})
		require.NoError(t, savers.Save(plucked, instance, prev))
		assert.Equal(t, "new", instance.Name)
	})

	t.Run("register extends the field set", func(t *testing.T) {
		savers := crud.NewCustomFieldSavers().
			Register(crud.CustomFieldSaver{Name: "a", Fields: []string{"x"}}).
			Register(crud.CustomFieldSaver{Name: "b", Fields: []string{"y", "z"}})

		assert.Equal(t, crud.NewFieldSet("x", "y", "z"), savers.FieldNames())
	})

	t.Run("nil registry is empty", func(t *testing.T) {
		var savers *crud.CustomFieldSavers

		assert.Empty(t, savers.FieldNames())
		assert.Nil(t, savers.Pluck(map[string]any{"a": 1}))
	})
}
