package server_test

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/andrewsinnovations/apialize-sub000/internal/config"
	"github.com/andrewsinnovations/apialize-sub000/internal/server"
	"github.com/andrewsinnovations/apialize-sub000/internal/server/middlewares"
)

var _ = Describe("HTTP Server", func() {
	var (
		cfg               *config.Configuration
		registerHandlerFn func(router *gin.RouterGroup)
		srv               *server.Server
	)

	BeforeEach(func() {
		registerHandlerFn = func(router *gin.RouterGroup) {
			router.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{"status": "ok"})
			})
		}
	})

	AfterEach(func() {
		if srv != nil {
			srv.Stop(context.TODO())
			srv = nil
		}
	})

	Context("dev server mode", func() {
		BeforeEach(func() {
			cfg = &config.Configuration{
				Server: config.Server{
					ServerMode: server.DevServer,
					HTTPPort:   18080,
				},
			}
		})

		It("serves over HTTP", func() {
			var err error
			srv, err = server.NewServer(cfg, registerHandlerFn)
			Expect(err).ToNot(HaveOccurred())

			go func() {
				_ = srv.Start(context.TODO())
			}()
			time.Sleep(100 * time.Millisecond)

			resp, err := http.Get(fmt.Sprintf("http://localhost:%d/api/v1/health", cfg.Server.HTTPPort))
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(200))
			resp.Body.Close()
		})

		It("tags every response with a request id", func() {
			var err error
			srv, err = server.NewServer(cfg, registerHandlerFn)
			Expect(err).ToNot(HaveOccurred())

			go func() {
				_ = srv.Start(context.TODO())
			}()
			time.Sleep(100 * time.Millisecond)

			resp, err := http.Get(fmt.Sprintf("http://localhost:%d/api/v1/health", cfg.Server.HTTPPort))
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Header.Get(middlewares.RequestIDHeader)).ToNot(BeEmpty())
			resp.Body.Close()
		})

		It("keeps a request id supplied by the client", func() {
			var err error
			srv, err = server.NewServer(cfg, registerHandlerFn)
			Expect(err).ToNot(HaveOccurred())

			go func() {
				_ = srv.Start(context.TODO())
			}()
			time.Sleep(100 * time.Millisecond)

			req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("http://localhost:%d/api/v1/health", cfg.Server.HTTPPort), nil)
			Expect(err).ToNot(HaveOccurred())
			req.Header.Set(middlewares.RequestIDHeader, "client-supplied-id")

			resp, err := http.DefaultClient.Do(req)
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Header.Get(middlewares.RequestIDHeader)).To(Equal("client-supplied-id"))
			resp.Body.Close()
		})
	})

	Context("production server mode", func() {
		BeforeEach(func() {
			cfg = &config.Configuration{
				Server: config.Server{
					ServerMode: server.ProductionServer,
					HTTPPort:   18443,
				},
			}
		})

		It("serves over HTTPS with TLS", func() {
			var err error
			srv, err = server.NewServer(cfg, registerHandlerFn)
			Expect(err).ToNot(HaveOccurred())

			go func() {
				_ = srv.Start(context.TODO())
			}()
			time.Sleep(100 * time.Millisecond)

			client := &http.Client{
				Transport: &http.Transport{
					TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
				},
			}

			resp, err := client.Get(fmt.Sprintf("https://localhost:%d/api/v1/health", cfg.Server.HTTPPort))
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(200))
			resp.Body.Close()
		})

		// Given a production server
		// When we request a non-existent route
		// Then it should return 404 with a JSON error
		It("returns 404 JSON for unknown routes", func() {
			var err error
			srv, err = server.NewServer(cfg, registerHandlerFn)
			Expect(err).ToNot(HaveOccurred())

			go func() {
				_ = srv.Start(context.TODO())
			}()
			time.Sleep(100 * time.Millisecond)

			client := &http.Client{
				Transport: &http.Transport{
					TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
				},
			}

			resp, err := client.Get(fmt.Sprintf("https://localhost:%d/api/v1/nonexistent", cfg.Server.HTTPPort))
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(404))
			Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("application/json"))
			resp.Body.Close()
		})

		// Given a running production server
		// When we call Stop
		// Then subsequent requests should fail
		It("stops accepting requests after Stop", func() {
			var err error
			srv, err = server.NewServer(cfg, registerHandlerFn)
			Expect(err).ToNot(HaveOccurred())

			go func() {
				_ = srv.Start(context.TODO())
			}()
			time.Sleep(100 * time.Millisecond)

			// Act
			srv.Stop(context.TODO())
			srv = nil // prevent double stop in AfterEach

			// Assert
			client := &http.Client{
				Transport: &http.Transport{
					TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
				},
			}
			_, err = client.Get(fmt.Sprintf("https://localhost:%d/api/v1/health", cfg.Server.HTTPPort))
			Expect(err).To(HaveOccurred())
		})
	})
})
