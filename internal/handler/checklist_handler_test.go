package handler

import (
	"net/http"
	"testing"

	"github.com/openwrench/garagehub/internal/config"
	"github.com/openwrench/garagehub/internal/entity"
	"github.com/openwrench/garagehub/internal/repository"
	"github.com/openwrench/garagehub/internal/service"
	"github.com/openwrench/garagehub/internal/testutil"
	"go.uber.org/zap"
)

func setupChecklistTest(t *testing.T) (*testutil.TestEnv, string) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, nil, &config.Config{}, zap.NewNop())
	jch := NewJobCardHandler(services.JobCard, services.Export, zap.NewNop())
	h := NewChecklistHandler(services.Checklist)

	api := testutil.AuthGroup(router, "/api/v1")
	api.POST("/job-cards", jch.Create)
	api.POST("/job-cards/:id/checklist", h.CreateItem)
	api.GET("/job-cards/:id/checklist", h.ListItems)
	api.PATCH("/job-cards/:id/checklist/:itemId", h.UpdateItem)
	api.DELETE("/job-cards/:id/checklist/:itemId", h.DeleteItem)
	api.POST("/job-cards/:id/checklist/:itemId/subtasks", h.AddSubtask)
	api.PATCH("/job-cards/:id/checklist/:itemId/subtasks/:subtaskId/toggle", h.ToggleSubtask)

	env := &testutil.TestEnv{DB: db, Router: router, T: t}

	token := testutil.GenerateTestToken("user-001", "garage-a", "Tester", "manager")
	seedJobCardFixtures(t, env, "garage-a")
	data := createJobCard(t, env, token, "garage-a")

	return env, data["id"].(string)
}

func checklistToken() string {
	return testutil.GenerateTestToken("user-001", "garage-a", "Tester", "manager")
}

func createChecklistItem(t *testing.T, env *testutil.TestEnv, cardID string, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/job-cards/"+cardID+"/checklist", body, checklistToken())
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return testutil.ParseResponse(w)["data"].(map[string]interface{})
}

func loadJobCard(t *testing.T, env *testutil.TestEnv, cardID string) *entity.JobCard {
	t.Helper()
	var card entity.JobCard
	if err := env.DB.Where("id = ?", cardID).First(&card).Error; err != nil {
		t.Fatalf("Failed to load job card: %v", err)
	}
	return &card
}

func TestChecklistCreateUpdatesCounters(t *testing.T) {
	env, cardID := setupChecklistTest(t)

	createChecklistItem(t, env, cardID, map[string]interface{}{
		"item_name":         "Replace brake pads",
		"estimated_minutes": 90,
		"labor_rate":        600,
	})
	item2 := createChecklistItem(t, env, cardID, map[string]interface{}{
		"item_name": "Check coolant level",
	})

	card := loadJobCard(t, env, cardID)
	if card.TotalChecklistItems != 2 {
		t.Errorf("Expected 2 total items, got %d", card.TotalChecklistItems)
	}
	if card.CompletedChecklistItems != 0 {
		t.Errorf("Expected 0 completed, got %d", card.CompletedChecklistItems)
	}
	if card.ProgressPercentage != 0 {
		t.Errorf("Expected 0 progress, got %d", card.ProgressPercentage)
	}
	// 90分钟 × 600/小时 = 900
	if card.LaborCost != 900 {
		t.Errorf("Expected labor cost 900, got %v", card.LaborCost)
	}

	// 完成一项，进度应重算为50
	w := testutil.DoRequest(env.Router, "PATCH",
		"/api/v1/job-cards/"+cardID+"/checklist/"+item2["id"].(string),
		map[string]interface{}{"status": entity.ChecklistStatusCompleted}, checklistToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	card = loadJobCard(t, env, cardID)
	if card.CompletedChecklistItems != 1 {
		t.Errorf("Expected 1 completed, got %d", card.CompletedChecklistItems)
	}
	if card.ProgressPercentage != 50 {
		t.Errorf("Expected 50 progress, got %d", card.ProgressPercentage)
	}
}

func TestChecklistCreateRequiresName(t *testing.T) {
	env, cardID := setupChecklistTest(t)

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/job-cards/"+cardID+"/checklist",
		map[string]interface{}{"item_name": "  "}, checklistToken())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}

	card := loadJobCard(t, env, cardID)
	if card.TotalChecklistItems != 0 {
		t.Errorf("Expected counters unchanged, got %d total", card.TotalChecklistItems)
	}
}

func TestChecklistDeleteRecalculates(t *testing.T) {
	env, cardID := setupChecklistTest(t)

	item := createChecklistItem(t, env, cardID, map[string]interface{}{
		"item_name": "Inspect tyres",
	})
	createChecklistItem(t, env, cardID, map[string]interface{}{
		"item_name": "Top up washer fluid",
	})

	w := testutil.DoRequest(env.Router, "DELETE",
		"/api/v1/job-cards/"+cardID+"/checklist/"+item["id"].(string), nil, checklistToken())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	card := loadJobCard(t, env, cardID)
	if card.TotalChecklistItems != 1 {
		t.Errorf("Expected 1 total after delete, got %d", card.TotalChecklistItems)
	}
}

func TestAddSubtask(t *testing.T) {
	env, cardID := setupChecklistTest(t)
	item := createChecklistItem(t, env, cardID, map[string]interface{}{
		"item_name": "Engine diagnostics",
	})
	itemID := item["id"].(string)

	w := testutil.DoRequest(env.Router, "POST",
		"/api/v1/job-cards/"+cardID+"/checklist/"+itemID+"/subtasks",
		map[string]interface{}{
			"name":              "Read fault codes",
			"estimated_minutes": 15,
		}, checklistToken())
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	subtask := data["subtask"].(map[string]interface{})
	if subtask["name"] != "Read fault codes" {
		t.Errorf("Expected subtask name, got %v", subtask["name"])
	}
	if subtask["completed"] != false {
		t.Errorf("Expected subtask to start incomplete, got %v", subtask["completed"])
	}

	updated := data["checklistItem"].(map[string]interface{})
	subtasks := updated["subtasks"].([]interface{})
	if len(subtasks) != 1 {
		t.Fatalf("Expected 1 subtask on item, got %d", len(subtasks))
	}
}

func TestAddSubtaskValidation(t *testing.T) {
	env, cardID := setupChecklistTest(t)
	item := createChecklistItem(t, env, cardID, map[string]interface{}{
		"item_name": "Engine diagnostics",
	})
	itemID := item["id"].(string)

	// 名称为空 + 负数分钟，两个字段错误都要报
	w := testutil.DoRequest(env.Router, "POST",
		"/api/v1/job-cards/"+cardID+"/checklist/"+itemID+"/subtasks",
		map[string]interface{}{
			"name":              "",
			"estimated_minutes": -5,
		}, checklistToken())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	fieldErrs, ok := resp["errors"].([]interface{})
	if !ok || len(fieldErrs) != 2 {
		t.Fatalf("Expected 2 field errors, got %v", resp["errors"])
	}

	// 子步骤列表不应被修改
	var stored entity.ChecklistItem
	env.DB.Where("id = ?", itemID).First(&stored)
	if len(stored.Subtasks) != 0 {
		t.Errorf("Expected subtask list unchanged, got %d entries", len(stored.Subtasks))
	}
}

func TestToggleSubtask(t *testing.T) {
	env, cardID := setupChecklistTest(t)
	item := createChecklistItem(t, env, cardID, map[string]interface{}{
		"item_name": "Engine diagnostics",
	})
	itemID := item["id"].(string)

	w := testutil.DoRequest(env.Router, "POST",
		"/api/v1/job-cards/"+cardID+"/checklist/"+itemID+"/subtasks",
		map[string]interface{}{"name": "Road test"}, checklistToken())
	subtask := testutil.ParseResponse(w)["data"].(map[string]interface{})["subtask"].(map[string]interface{})
	subtaskID := subtask["id"].(string)

	w2 := testutil.DoRequest(env.Router, "PATCH",
		"/api/v1/job-cards/"+cardID+"/checklist/"+itemID+"/subtasks/"+subtaskID+"/toggle", nil, checklistToken())
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	toggled := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	subtasks := toggled["subtasks"].([]interface{})
	if subtasks[0].(map[string]interface{})["completed"] != true {
		t.Errorf("Expected subtask completed after toggle")
	}

	// 未知子步骤ID返回404
	w3 := testutil.DoRequest(env.Router, "PATCH",
		"/api/v1/job-cards/"+cardID+"/checklist/"+itemID+"/subtasks/nope/toggle", nil, checklistToken())
	if w3.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w3.Code)
	}
}
