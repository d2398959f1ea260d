package messaging

import (
	"context"
	"fmt"

	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	"github.com/wekeepgrowing/semo-billing/pkg/messaging"
)

// RedisSubscriptionPublisher Redis 기반 구독 변경 발행자
type RedisSubscriptionPublisher struct {
	client  messaging.Publisher
	channel string
}

// NewRedisSubscriptionPublisher 구독 변경 발행자 생성
func NewRedisSubscriptionPublisher(client messaging.Publisher, channel string) *RedisSubscriptionPublisher {
	return &RedisSubscriptionPublisher{
		client:  client,
		channel: channel,
	}
}

// PublishSubscriptionChange 구독 상태 변경 발행
func (p *RedisSubscriptionPublisher) PublishSubscriptionChange(ctx context.Context, change *entity.SubscriptionChange) error {
	if change == nil {
		return fmt.Errorf("구독 변경 데이터가 없습니다")
	}

	// 사용자별 채널
	if change.UserID != "" {
		userChannel := fmt.Sprintf("%s:%s", p.channel, change.UserID)
		if err := p.client.Publish(ctx, userChannel, change); err != nil {
			return fmt.Errorf("구독 변경 발행 실패: %w", err)
		}
	}

	// 전체 채널에도 발행
	if err := p.client.Publish(ctx, p.channel, change); err != nil {
		return fmt.Errorf("전체 채널 구독 변경 발행 실패: %w", err)
	}

	return nil
}

// Close 발행자 종료
func (p *RedisSubscriptionPublisher) Close() error {
	return p.client.Close()
}
