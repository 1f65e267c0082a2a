//go:build integration

package integration

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"insightify/internal/domain"
	"insightify/internal/shared"
	mysqlsrc "insightify/internal/storage/mysql"
	"insightify/internal/wiring"
)

func TestMySQL_EndToEnd_AnalyzeSource(t *testing.T) {
	// Start isolated MySQL container
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=insightify",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/insightify?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(`
CREATE TABLE shop_reviews (id INT PRIMARY KEY AUTO_INCREMENT, comment_text TEXT, stars INT);
INSERT INTO shop_reviews (comment_text, stars) VALUES
  ('I love it, great!', 5),
  ('Awful, I hate it.', 1),
  ('   ', 2),
  ('', 2),
  (NULL, 3);`); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cfg := shared.Config{Backend: wiring.BackendVader, ReviewColumn: "Ulasan", TopKeywords: 15}
	_, svc, closeAll, err := wiring.Services(context.Background(), cfg, mysqlsrc.New(db))
	if err != nil {
		t.Fatalf("wiring: %v", err)
	}
	t.Cleanup(closeAll)

	// default column is absent, so a choice is required first
	_, err = svc.AnalyzeSource(context.Background(), "shop_reviews", "", 0)
	if _, ok := err.(*domain.ColumnChoiceError); !ok {
		t.Fatalf("expected ColumnChoiceError, got %v", err)
	}

	res, err := svc.AnalyzeSource(context.Background(), "shop_reviews", "comment_text", 0)
	if err != nil {
		t.Fatalf("AnalyzeSource: %v", err)
	}
	if res.Total() != 3 || res.Sentiments[domain.Positive] != 1 || res.Sentiments[domain.Negative] != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}
