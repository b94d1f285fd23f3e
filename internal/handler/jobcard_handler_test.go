package handler

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/openwrench/garagehub/internal/config"
	"github.com/openwrench/garagehub/internal/entity"
	"github.com/openwrench/garagehub/internal/repository"
	"github.com/openwrench/garagehub/internal/service"
	"github.com/openwrench/garagehub/internal/sse"
	"github.com/openwrench/garagehub/internal/testutil"
	"go.uber.org/zap"
)

func setupJobCardTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, nil, &config.Config{}, zap.NewNop())
	services.JobCard.SetHub(sse.NewHub())
	h := NewJobCardHandler(services.JobCard, services.Export, zap.NewNop())

	api := testutil.AuthGroup(router, "/api/v1")
	api.POST("/job-cards", h.Create)
	api.GET("/job-cards", h.List)
	api.GET("/job-cards/:id", h.Get)
	api.PATCH("/job-cards/:id", h.Update)
	api.DELETE("/job-cards/:id", h.Delete)
	api.PATCH("/job-cards/:id/status", h.UpdateStatus)
	api.GET("/job-cards/:id/history", h.History)
	api.POST("/job-cards/:id/parts", h.AddPart)
	api.DELETE("/job-cards/:id/parts/:usageId", h.RemovePart)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func seedJobCardFixtures(t *testing.T, env *testutil.TestEnv, garageID string) {
	t.Helper()
	testutil.SeedGarage(t, env.DB, garageID, "code-"+garageID, "Garage "+garageID)
	testutil.SeedCustomer(t, env.DB, "cust-"+garageID, garageID, "Customer "+garageID)
	testutil.SeedVehicle(t, env.DB, "veh-"+garageID, garageID, "cust-"+garageID, "KA01AB1234")
}

func createJobCard(t *testing.T, env *testutil.TestEnv, token, garageID string) map[string]interface{} {
	t.Helper()
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/job-cards", map[string]interface{}{
		"customer_id":        "cust-" + garageID,
		"vehicle_id":         "veh-" + garageID,
		"customer_complaint": "brake noise",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	return resp["data"].(map[string]interface{})
}

func TestJobCardSequentialNumbering(t *testing.T) {
	env := setupJobCardTest(t)
	token := testutil.GenerateTestToken("user-001", "garage-a", "Tester", "manager")
	seedJobCardFixtures(t, env, "garage-a")

	prefix := entity.JobCardNumberPrefix(time.Now())
	for i := 1; i <= 3; i++ {
		data := createJobCard(t, env, token, "garage-a")
		want := fmt.Sprintf("%s%04d", prefix, i)
		if data["job_card_number"] != want {
			t.Errorf("Expected number %s, got %v", want, data["job_card_number"])
		}
		if data["status"] != entity.JobCardStatusPending {
			t.Errorf("Expected status pending, got %v", data["status"])
		}
	}
}

func TestJobCardNumberingPerGarage(t *testing.T) {
	env := setupJobCardTest(t)
	tokenA := testutil.GenerateTestToken("user-001", "garage-a", "Tester A", "manager")
	tokenB := testutil.GenerateTestToken("user-002", "garage-b", "Tester B", "manager")
	seedJobCardFixtures(t, env, "garage-a")
	seedJobCardFixtures(t, env, "garage-b")

	// 两个门店各建一单，各自从0001开始
	createJobCard(t, env, tokenA, "garage-a")
	dataB := createJobCard(t, env, tokenB, "garage-b")

	prefix := entity.JobCardNumberPrefix(time.Now())
	if dataB["job_card_number"] != prefix+"0001" {
		t.Errorf("Expected garage-b to start at 0001, got %v", dataB["job_card_number"])
	}
}

func TestJobCardStatusUpdateRecordsHistory(t *testing.T) {
	env := setupJobCardTest(t)
	token := testutil.GenerateTestToken("user-001", "garage-a", "Tester", "manager")
	seedJobCardFixtures(t, env, "garage-a")
	data := createJobCard(t, env, token, "garage-a")
	cardID := data["id"].(string)

	w := testutil.DoRequest(env.Router, "PATCH", "/api/v1/job-cards/"+cardID+"/status", map[string]interface{}{
		"status": entity.JobCardStatusInProgress,
		"reason": "mechanic assigned",
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["data"].(map[string]interface{})["status"] != entity.JobCardStatusInProgress {
		t.Errorf("Expected status in-progress, got %v", resp["data"])
	}

	// 创建+流转 = 两条历史，倒序排列
	w2 := testutil.DoRequest(env.Router, "GET", "/api/v1/job-cards/"+cardID+"/history", nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	history := testutil.ParseResponse(w2)["data"].([]interface{})
	if len(history) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(history))
	}
	latest := history[0].(map[string]interface{})
	if latest["to_status"] != entity.JobCardStatusInProgress {
		t.Errorf("Expected latest to_status in-progress, got %v", latest["to_status"])
	}
	if latest["from_status"] != entity.JobCardStatusPending {
		t.Errorf("Expected from_status pending, got %v", latest["from_status"])
	}
	if latest["changed_by"] != "user-001" {
		t.Errorf("Expected changed_by user-001, got %v", latest["changed_by"])
	}
}

func TestJobCardStatusUpdateRejectsUnknownStatus(t *testing.T) {
	env := setupJobCardTest(t)
	token := testutil.GenerateTestToken("user-001", "garage-a", "Tester", "manager")
	seedJobCardFixtures(t, env, "garage-a")
	data := createJobCard(t, env, token, "garage-a")
	cardID := data["id"].(string)

	w := testutil.DoRequest(env.Router, "PATCH", "/api/v1/job-cards/"+cardID+"/status", map[string]interface{}{
		"status": "archived",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}

	// 状态应保持不变
	var card entity.JobCard
	env.DB.Where("id = ?", cardID).First(&card)
	if card.Status != entity.JobCardStatusPending {
		t.Errorf("Expected status unchanged (pending), got %s", card.Status)
	}
}

func TestJobCardStatusUpdateRequiresActingUser(t *testing.T) {
	env := setupJobCardTest(t)
	token := testutil.GenerateTestToken("user-001", "garage-a", "Tester", "manager")
	seedJobCardFixtures(t, env, "garage-a")
	data := createJobCard(t, env, token, "garage-a")
	cardID := data["id"].(string)

	// uid为空的token，body也不带user_id
	anonToken := testutil.GenerateTestToken("", "garage-a", "Anon", "mechanic")
	w := testutil.DoRequest(env.Router, "PATCH", "/api/v1/job-cards/"+cardID+"/status", map[string]interface{}{
		"status": entity.JobCardStatusCompleted,
	}, anonToken)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var card entity.JobCard
	env.DB.Where("id = ?", cardID).First(&card)
	if card.Status != entity.JobCardStatusPending {
		t.Errorf("Expected status unchanged (pending), got %s", card.Status)
	}

	var count int64
	env.DB.Model(&entity.JobCardStatusHistory{}).Where("job_card_id = ?", cardID).Count(&count)
	if count != 1 {
		t.Errorf("Expected only the creation history entry, got %d", count)
	}
}

func TestJobCardGarageIsolation(t *testing.T) {
	env := setupJobCardTest(t)
	tokenA := testutil.GenerateTestToken("user-001", "garage-a", "Tester A", "manager")
	tokenB := testutil.GenerateTestToken("user-002", "garage-b", "Tester B", "manager")
	seedJobCardFixtures(t, env, "garage-a")
	seedJobCardFixtures(t, env, "garage-b")
	data := createJobCard(t, env, tokenA, "garage-a")
	cardID := data["id"].(string)

	// 其它门店访问按不存在处理
	w := testutil.DoRequest(env.Router, "GET", "/api/v1/job-cards/"+cardID, nil, tokenB)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestJobCardSoftDelete(t *testing.T) {
	env := setupJobCardTest(t)
	token := testutil.GenerateTestToken("user-001", "garage-a", "Tester", "manager")
	seedJobCardFixtures(t, env, "garage-a")
	data := createJobCard(t, env, token, "garage-a")
	cardID := data["id"].(string)

	w := testutil.DoRequest(env.Router, "DELETE", "/api/v1/job-cards/"+cardID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// 删除后读不到，但行还在库里
	w2 := testutil.DoRequest(env.Router, "GET", "/api/v1/job-cards/"+cardID, nil, token)
	if w2.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 after delete, got %d", w2.Code)
	}
	var card entity.JobCard
	if err := env.DB.Unscoped().Where("id = ?", cardID).First(&card).Error; err != nil {
		t.Fatalf("Expected row to remain: %v", err)
	}
	if card.DeletedAt == nil {
		t.Error("Expected deleted_at to be set")
	}
}

func TestJobCardListFilters(t *testing.T) {
	env := setupJobCardTest(t)
	token := testutil.GenerateTestToken("user-001", "garage-a", "Tester", "manager")
	seedJobCardFixtures(t, env, "garage-a")

	createJobCard(t, env, token, "garage-a") // brake noise / general
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/job-cards", map[string]interface{}{
		"customer_id":        "cust-garage-a",
		"vehicle_id":         "veh-garage-a",
		"job_type":           "repair",
		"customer_complaint": "engine overheating",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// 按投诉内容关键字过滤
	w2 := testutil.DoRequest(env.Router, "GET", "/api/v1/job-cards?keyword=overheating", nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	data := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	if data["total"].(float64) != 1 {
		t.Fatalf("Expected 1 match for keyword, got %v", data["total"])
	}
	items := data["items"].([]interface{})
	if items[0].(map[string]interface{})["customer_complaint"] != "engine overheating" {
		t.Errorf("Expected the overheating card, got %v", items[0])
	}

	// 按作业类型过滤
	w3 := testutil.DoRequest(env.Router, "GET", "/api/v1/job-cards?job_type=repair", nil, token)
	if w3.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w3.Code, w3.Body.String())
	}
	data3 := testutil.ParseResponse(w3)["data"].(map[string]interface{})
	if data3["total"].(float64) != 1 {
		t.Errorf("Expected 1 repair card, got %v", data3["total"])
	}
}

func TestJobCardPartUsageFlow(t *testing.T) {
	env := setupJobCardTest(t)
	token := testutil.GenerateTestToken("user-001", "garage-a", "Tester", "manager")
	seedJobCardFixtures(t, env, "garage-a")
	testutil.SeedPart(t, env.DB, "part-001", "garage-a", "BP-100", 10)
	data := createJobCard(t, env, token, "garage-a")
	cardID := data["id"].(string)

	// 领用4件，单价50
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/job-cards/"+cardID+"/parts", map[string]interface{}{
		"part_id":  "part-001",
		"quantity": 4,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	usage := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if usage["total_price"].(float64) != 200 {
		t.Errorf("Expected total_price 200, got %v", usage["total_price"])
	}
	usageID := usage["id"].(string)

	var part entity.Part
	env.DB.Where("id = ?", "part-001").First(&part)
	if part.StockQty != 6 {
		t.Errorf("Expected stock 6 after usage, got %v", part.StockQty)
	}

	var card entity.JobCard
	env.DB.Where("id = ?", cardID).First(&card)
	if card.PartsCost != 200 {
		t.Errorf("Expected parts_cost 200, got %v", card.PartsCost)
	}
	if card.TotalCost != 200 {
		t.Errorf("Expected total_cost 200, got %v", card.TotalCost)
	}

	// 库存不足整单拒绝，库存不动
	w2 := testutil.DoRequest(env.Router, "POST", "/api/v1/job-cards/"+cardID+"/parts", map[string]interface{}{
		"part_id":  "part-001",
		"quantity": 100,
	}, token)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for insufficient stock, got %d: %s", w2.Code, w2.Body.String())
	}
	env.DB.Where("id = ?", "part-001").First(&part)
	if part.StockQty != 6 {
		t.Errorf("Expected stock unchanged at 6, got %v", part.StockQty)
	}

	// 撤销领用回补库存并重算费用
	w3 := testutil.DoRequest(env.Router, "DELETE", "/api/v1/job-cards/"+cardID+"/parts/"+usageID, nil, token)
	if w3.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w3.Code, w3.Body.String())
	}
	env.DB.Where("id = ?", "part-001").First(&part)
	if part.StockQty != 10 {
		t.Errorf("Expected stock restored to 10, got %v", part.StockQty)
	}
	env.DB.Where("id = ?", cardID).First(&card)
	if card.PartsCost != 0 || card.TotalCost != 0 {
		t.Errorf("Expected costs back to 0, got parts=%v total=%v", card.PartsCost, card.TotalCost)
	}
}

func TestJobCardNumberExhaustion(t *testing.T) {
	env := setupJobCardTest(t)
	token := testutil.GenerateTestToken("user-001", "garage-a", "Tester", "manager")
	seedJobCardFixtures(t, env, "garage-a")

	// 当日号段已到9999
	now := time.Now()
	last := &entity.JobCard{
		ID:            "jc-last-of-day",
		JobCardNumber: entity.JobCardNumberPrefix(now) + "9999",
		GarageID:      "garage-a",
		CustomerID:    "cust-garage-a",
		VehicleID:     "veh-garage-a",
		Status:        entity.JobCardStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := env.DB.Create(last).Error; err != nil {
		t.Fatalf("Failed to seed job card: %v", err)
	}

	w := testutil.DoRequest(env.Router, "POST", "/api/v1/job-cards", map[string]interface{}{
		"customer_id":        "cust-garage-a",
		"vehicle_id":         "veh-garage-a",
		"customer_complaint": "one too many",
	}, token)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if msg, _ := resp["error"].(string); !strings.Contains(msg, "could not allocate") {
		t.Errorf("Expected allocation failure message, got %v", resp["error"])
	}

	var count int64
	env.DB.Model(&entity.JobCard{}).Where("garage_id = ?", "garage-a").Count(&count)
	if count != 1 {
		t.Errorf("Expected no new card beyond the seeded one, got %d", count)
	}
}
