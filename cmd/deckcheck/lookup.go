package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/deckcheck/internal/domain"
	"github.com/John-Robertt/deckcheck/internal/legality"
)

type lookupResult struct {
	Card          string          `json:"card"`
	MultiverseIDs []int           `json:"multiverse_ids"`
	Legality      domain.Legality `json:"legality"`
}

func newLookupCmd(c *cli) *cobra.Command {
	var id int

	cmd := &cobra.Command{
		Use:   "lookup <card name>",
		Short: "查询单张卡牌在各赛制下的合法性",
		Args: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(strings.Join(args, " ")) == "" {
				return &exitError{code: 2, msg: "lookup 需要卡名"}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			eff, err := loadConfig(cmd, c)
			if err != nil {
				return err
			}
			src, err := newCatalogClient(eff, c.logger)
			if err != nil {
				return &exitError{code: 1, msg: fmt.Sprintf("初始化目录客户端失败：%v", err)}
			}

			card := domain.NewCard(strings.Join(args, " "), id)
			if _, err := legality.NewCache(src).Resolve(cmd.Context(), card); err != nil {
				return &exitError{code: 1, msg: err.Error()}
			}

			out := cmd.OutOrStdout()
			if isTerminal(out) {
				renderCard(out, card)
				return nil
			}
			res := lookupResult{Card: card.Name, MultiverseIDs: card.SortedIDs(), Legality: card.Legality}
			if res.MultiverseIDs == nil {
				res.MultiverseIDs = []int{}
			}
			if res.Legality == nil {
				res.Legality = domain.Legality{}
			}
			return json.NewEncoder(out).Encode(res)
		},
	}

	cmd.Flags().IntVar(&id, "multiverseid", 0, "已知的目录标识符（跳过按名称查询）")
	addNetworkFlags(cmd)
	return cmd
}
