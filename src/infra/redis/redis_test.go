package redis_test

import (
	"context"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	goredis "github.com/redis/go-redis/v9"

	"campusrecords/src/infra/redis"
)

var _ = Describe("RedisClient", func() {
	var (
		ctx    context.Context
		server *miniredis.Miniredis
		client *redis.RedisClient
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		server, err = miniredis.Run()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(server.Close)

		client = redis.NewRedisClientFrom(goredis.NewClient(&goredis.Options{Addr: server.Addr()}), time.Minute).
			WithPrefix("test:")
		DeferCleanup(client.Close)
	})

	It("stores and reads a key under the prefix with the default TTL", func() {
		Expect(client.SetKey(ctx, "record:ucsborganization:1", `{"id":1}`)).To(Succeed())

		value, found, err := client.GetKey(ctx, "record:ucsborganization:1")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeTrue())
		Expect(value).To(Equal(`{"id":1}`))

		Expect(server.Exists("test:record:ucsborganization:1")).To(BeTrue())
		Expect(server.TTL("test:record:ucsborganization:1")).To(Equal(time.Minute))
	})

	It("reports a miss without an error", func() {
		_, found, err := client.GetKey(ctx, "record:ucsborganization:404")

		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeFalse())
	})

	It("fills an absent key but never overwrites an existing one", func() {
		stored, err := client.SetKeyIfAbsent(ctx, "record:ucsborganization:2", "old")
		Expect(err).NotTo(HaveOccurred())
		Expect(stored).To(BeTrue())
		Expect(server.TTL("test:record:ucsborganization:2")).To(Equal(time.Minute))

		Expect(client.SetKey(ctx, "record:ucsborganization:2", "new")).To(Succeed())

		stored, err = client.SetKeyIfAbsent(ctx, "record:ucsborganization:2", "stale")
		Expect(err).NotTo(HaveOccurred())
		Expect(stored).To(BeFalse())

		value, _, err := client.GetKey(ctx, "record:ucsborganization:2")
		Expect(err).NotTo(HaveOccurred())
		Expect(value).To(Equal("new"))
	})

	It("invalidates keys and flushes only its prefix", func() {
		Expect(client.SetKey(ctx, "a", "1")).To(Succeed())
		Expect(client.SetKey(ctx, "b", "2")).To(Succeed())
		Expect(server.Set("other:c", "3")).To(Succeed())

		Expect(client.InvalidateKeys(ctx, "a")).To(Succeed())
		_, found, err := client.GetKey(ctx, "a")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeFalse())

		Expect(client.FlushByPrefix(ctx)).To(Succeed())
		Expect(server.Keys()).To(Equal([]string{"other:c"}))
	})

	It("answers the health check", func() {
		Expect(client.HealthCheck(ctx)).To(Succeed())
	})
})
