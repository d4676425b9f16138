package audit

import "time"

// Entity は監査用の共通フィールドを持つ値型
// 各集約に埋め込んで使用する
type Entity struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int // 楽観的ロック用
}

// New は現在時刻で初期化した Entity を返す
func New() Entity {
	now := time.Now()
	return Entity{CreatedAt: now, UpdatedAt: now, Version: 0}
}

// Touch は更新時刻を進める
// すべての状態変更で呼び出すこと。バージョンは永続化時に
// リポジトリが加算する（読み込み時点の値との比較に使うため）
func (e *Entity) Touch() {
	e.UpdatedAt = time.Now()
}
