package wire

import (
	"Parchment/internal/api"
	"Parchment/internal/api/config"
	"Parchment/internal/api/handler"
	"Parchment/internal/job"
	"Parchment/internal/pkg/consts"
	"Parchment/internal/pkg/cron"
	"Parchment/internal/pkg/engagement"
	"Parchment/internal/pkg/es"
	"Parchment/internal/pkg/kafka"
	"Parchment/internal/pkg/mongo"
	pkgredis "Parchment/internal/pkg/redis"
	"Parchment/internal/repository"
	"Parchment/internal/service"
	"errors"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

const (
	lockExpiration = 5 * time.Second
	lockRetryTimes = 40
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongodriver.Database, cfg *config.Config) (*ApplicationContainer, error) {
	rdb := pkgredis.GetRdbClient()

	userRepo := repository.NewUserRepo(db)
	articleRepo := repository.NewArticleRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	authorRepo := repository.NewAuthorRepo(db)
	followRepo := repository.NewUserFollowRepo(db)
	listRepo := repository.NewUserListRepo(db)
	counterRepo := repository.NewViewCounterRepo(db)
	traceRepo := mongo.NewUserTraceRepo(mongoDB)

	searchRepo := searchRepoFor(cfg.Kafka, es.Client)

	affinityCache := pkgredis.NewAffinityCache(rdb)
	followingCache := pkgredis.NewFollowingCache(rdb)
	dirtySet := pkgredis.NewDirtySet(rdb, consts.AuthorFootprintDirty)

	var locker engagement.Locker = engagement.NewKeyedMutex()
	if cfg.Engagement.DistributedLock {
		locker = pkgredis.NewDistLocker(rdb, "", lockExpiration, lockRetryTimes)
	}

	affinitySvc := service.NewAffinityService(traceRepo, articleRepo, affinityCache, cfg.Ranking.ProfileCacheTTL)
	articleSvc := service.NewArticleService(articleRepo, searchRepo, affinitySvc, cfg.Ranking)
	categorySvc := service.NewCategoryService(categoryRepo, affinitySvc)
	followSvc := service.NewFollowSuggestionService(authorRepo, userRepo, followRepo, affinitySvc, followingCacheFor(cfg.Kafka, followingCache), cfg.Ranking)
	engagementSvc := service.NewEngagementService(articleRepo, counterRepo, traceRepo, affinitySvc, locker, cfg.Engagement)
	userTraceSvc := service.NewUserTraceService(traceRepo, userRepo, categoryRepo, listRepo, articleRepo, affinitySvc, cfg.Ranking)

	handlers := &api.HandlersGroup{
		ArticleHandler:    handler.NewArticleHandler(articleSvc),
		CategoryHandler:   handler.NewCategoryHandler(categorySvc),
		UserTraceHandler:  handler.NewUserTraceHandler(engagementSvc, userTraceSvc),
		UserFollowHandler: handler.NewUserFollowHandler(followSvc),
	}

	router := api.SetupRouter(handlers, cfg.Server)

	var kafkaMgr *kafka.ConsumerManager
	if cfg.Kafka.Enable {
		if searchRepo == nil {
			return nil, errors.New("kafka 消费需要 Elasticsearch 客户端")
		}
		var err error
		kafkaMgr, err = kafka.NewConsumerManager(cfg, kafka.Handlers{
			Users:             kafka.NewUserHandler(traceRepo, affinityCache, followingCache),
			UserFollows:       kafka.NewUserFollowsHandler(followingCache),
			Articles:          kafka.NewArticlesHandler(articleRepo, searchRepo, dirtySet),
			ArticleCategories: kafka.NewArticleCategoriesHandler(articleRepo, searchRepo, dirtySet),
		})
		if err != nil {
			return nil, err
		}
	}

	footprintJob := job.NewAuthorFootprintJob(authorRepo, dirtySet)
	rebuildJob := job.NewAuthorFootprintRebuildJob(authorRepo, locker)
	cronMgr := cron.NewCronManager(cfg.Cron, footprintJob, rebuildJob)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}

// searchRepoFor 索引只由变更消费写入，未开启消费时搜索走数据库 LIKE
func searchRepoFor(kafkaCfg config.KafkaConfig, client *elasticsearch.TypedClient) es.ArticleRepo {
	if !kafkaCfg.Enable || client == nil {
		return nil
	}
	return es.NewArticleRepo(client, es.ArticleIndex)
}

// followingCacheFor 关注列表缓存只能靠 user_follows 的变更消费失效
func followingCacheFor(kafkaCfg config.KafkaConfig, cache *pkgredis.FollowingCache) service.FollowingCache {
	if !kafkaCfg.Enable || cache == nil {
		return nil
	}
	return cache
}
