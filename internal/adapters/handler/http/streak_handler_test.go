package http_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

func createStreak(t *testing.T, env *testEnv, userID, body string) *domain.Streak {
	t.Helper()

	w := env.do("POST", "/api/v1/streaks", userID, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var s domain.Streak
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	return &s
}

func TestCreateStreak(t *testing.T) {
	t.Run("Success: 201 Created", func(t *testing.T) {
		env := setupRouter()

		w := env.do("POST", "/api/v1/streaks", "user-1", `{"name": "Read", "color": "Red", "start_date": "2024-03-01"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Read"`)
		assert.Contains(t, w.Body.String(), `"color":"red"`)
		assert.Contains(t, w.Body.String(), `"start_date":"2024-03-01"`)
		assert.Contains(t, w.Body.String(), `"completions":[]`)
	})

	t.Run("Fail: 401 Unauthorized (No user)", func(t *testing.T) {
		env := setupRouter()

		w := env.do("POST", "/api/v1/streaks", "", `{"name": "Read", "color": "red"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Fail: 400 Bad Request", func(t *testing.T) {
		env := setupRouter()

		bodies := []string{
			`{"name": "", "color": "red"}`,
			`{"name": "Read", "color": "chartreuse"}`,
			`{"name": "Read", "color": "red", "start_date": "01/03/2024"}`,
			`not json`,
		}
		for _, body := range bodies {
			w := env.do("POST", "/api/v1/streaks", "user-1", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, body)
		}
	})

	t.Run("Fail: 409 Conflict (Color already used)", func(t *testing.T) {
		env := setupRouter()
		createStreak(t, env, "user-1", `{"name": "Read", "color": "red"}`)

		w := env.do("POST", "/api/v1/streaks", "user-1", `{"name": "Run", "color": "red"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestGetStreaks(t *testing.T) {
	env := setupRouter()
	mine := createStreak(t, env, "user-1", `{"name": "Read", "color": "red"}`)
	createStreak(t, env, "user-1", `{"name": "Run", "color": "blue"}`)
	theirs := createStreak(t, env, "user-2", `{"name": "Swim", "color": "teal"}`)

	t.Run("Success: List only own streaks", func(t *testing.T) {
		w := env.do("GET", "/api/v1/streaks", "user-1", "")
		require.Equal(t, http.StatusOK, w.Code)

		var list []domain.Streak
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list, 2)
	})

	t.Run("Success: Get by ID", func(t *testing.T) {
		w := env.do("GET", "/api/v1/streaks/"+mine.ID, "user-1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), mine.ID)
	})

	t.Run("Fail: 404 for someone else's streak", func(t *testing.T) {
		w := env.do("GET", "/api/v1/streaks/"+theirs.ID, "user-1", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateAndDeleteStreak(t *testing.T) {
	env := setupRouter()
	s := createStreak(t, env, "user-1", `{"name": "Read", "color": "red"}`)

	t.Run("Success: Partial update", func(t *testing.T) {
		w := env.do("PUT", "/api/v1/streaks/"+s.ID, "user-1", `{"is_active": false, "color": "violet"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"is_active":false`)
		assert.Contains(t, w.Body.String(), `"color":"violet"`)
		assert.Contains(t, w.Body.String(), `"name":"Read"`)
	})

	t.Run("Fail: 404 when updating someone else's streak", func(t *testing.T) {
		w := env.do("PUT", "/api/v1/streaks/"+s.ID, "user-2", `{"name": "Hijacked"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Success: Delete then 404", func(t *testing.T) {
		w := env.do("DELETE", "/api/v1/streaks/"+s.ID, "user-1", "")
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = env.do("GET", "/api/v1/streaks/"+s.ID, "user-1", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

type gridResponse struct {
	SizeX         int    `json:"size_x"`
	SizeY         int    `json:"size_y"`
	ReferenceDate string `json:"reference_date"`
	Completed     int    `json:"completed"`
	ColorName     string `json:"color_name"`
	Cells         [][]struct {
		Date      string `json:"date"`
		Completed bool   `json:"completed"`
		Class     string `json:"class"`
	} `json:"cells"`
}

func TestStreakGrid(t *testing.T) {
	env := setupRouter()
	s := createStreak(t, env, "user-1", `{"name": "Read", "color": "emerald", "start_date": "2024-03-01"}`)

	for _, day := range []string{"2024-03-09", "2024-03-14", "2024-03-15"} {
		w := env.do("POST", "/api/v1/completions", "user-1", `{"streak": "`+s.ID+`", "date_completed": "`+day+`"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	t.Run("Success: Column-major grid ending at the reference date", func(t *testing.T) {
		w := env.do("GET", "/api/v1/streaks/"+s.ID+"/grid?size_x=2&size_y=7&date=2024-03-15", "user-1", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var grid gridResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &grid))

		assert.Equal(t, 2, grid.SizeX)
		assert.Equal(t, 7, grid.SizeY)
		assert.Equal(t, "2024-03-15", grid.ReferenceDate)
		assert.Equal(t, 3, grid.Completed)
		require.Len(t, grid.Cells, 2)
		require.Len(t, grid.Cells[1], 7)

		assert.Equal(t, "2024-03-02", grid.Cells[0][0].Date)
		assert.Equal(t, "2024-03-15", grid.Cells[1][6].Date)
		assert.True(t, grid.Cells[1][6].Completed)
		assert.Equal(t, "bg-emerald-500", grid.Cells[1][6].Class)
		assert.Equal(t, domain.EmptyBlockClass, grid.Cells[0][0].Class)
		assert.Equal(t, "Emerald", grid.ColorName)
		assert.True(t, grid.Cells[1][5].Completed)
		assert.True(t, grid.Cells[1][0].Completed)
		assert.False(t, grid.Cells[0][0].Completed)
	})

	t.Run("Success: Defaults to a 7x7 grid ending today", func(t *testing.T) {
		w := env.do("GET", "/api/v1/streaks/"+s.ID+"/grid", "user-1", "")
		require.Equal(t, http.StatusOK, w.Code)

		var grid gridResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &grid))
		assert.Equal(t, "2024-03-15", grid.ReferenceDate)
		assert.Len(t, grid.Cells, 7)
	})

	t.Run("Success: Zero size yields an empty grid", func(t *testing.T) {
		w := env.do("GET", "/api/v1/streaks/"+s.ID+"/grid?size_x=0", "user-1", "")
		require.Equal(t, http.StatusOK, w.Code)

		var grid gridResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &grid))
		assert.Empty(t, grid.Cells)
		assert.Equal(t, 0, grid.Completed)
	})

	t.Run("Fail: 400 on bad parameters", func(t *testing.T) {
		queries := []string{
			"?size_x=abc",
			"?size_x=-1",
			"?size_y=-3",
			"?size_x=400",
			"?size_x=100&size_y=100",
			"?date=15-03-2024",
		}
		for _, q := range queries {
			w := env.do("GET", "/api/v1/streaks/"+s.ID+"/grid"+q, "user-1", "")
			assert.Equal(t, http.StatusBadRequest, w.Code, q)
		}
	})

	t.Run("Fail: 404 for someone else's streak", func(t *testing.T) {
		w := env.do("GET", "/api/v1/streaks/"+s.ID+"/grid", "user-2", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListColors(t *testing.T) {
	env := setupRouter()

	w := env.do("GET", "/api/v1/colors", "user-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var colors []struct {
		Key   string `json:"key"`
		Name  string `json:"name"`
		Style struct {
			Bright string `json:"bright"`
		} `json:"style"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &colors))
	require.Len(t, colors, len(domain.Colors))

	assert.Equal(t, "red", colors[0].Key)
	assert.Equal(t, "Crimson", colors[0].Name)
	assert.Equal(t, "bg-red-500", colors[0].Style.Bright)
}
